package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry represents a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	repeated  int
}

func (e *Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// maxEntries is the maximum number of entries kept by the central logger.
const maxEntries = 512

type central struct {
	mu      sync.Mutex
	entries []Entry

	echo      io.Writer
	echoTag   string
	echoFresh bool
}

var log = &central{entries: make([]Entry, 0, maxEntries)}

// Log adds an entry to the central logger.
func Log(perm Permission, tag, detail string) {
	if perm == Allow || perm.AllowLogging() {
		log.add(tag, detail)
	}
}

// Logf adds a formatted entry to the central logger.
func Logf(perm Permission, tag, detail string, args ...interface{}) {
	Log(perm, tag, fmt.Sprintf(detail, args...))
}

func (c *central) add(tag, detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	var last *Entry
	if len(c.entries) > 0 {
		last = &c.entries[len(c.entries)-1]
	}

	if last != nil && last.Tag == tag && last.Detail == detail {
		last.repeated++
		last.Timestamp = time.Now()
	} else {
		c.entries = append(c.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
		last = &c.entries[len(c.entries)-1]
	}

	if len(c.entries) > maxEntries {
		c.entries = c.entries[len(c.entries)-maxEntries:]
	}

	if c.echo != nil {
		io.WriteString(c.echo, last.String())
	}
}

// Clear removes all entries from the central logger.
func Clear() {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.entries = log.entries[:0]
}

// Write writes every entry in the central logger to output.
func Write(output io.Writer) {
	log.mu.Lock()
	defer log.mu.Unlock()
	for _, e := range log.entries {
		io.WriteString(output, e.String())
	}
}

// Tail writes the last number entries to output.
func Tail(output io.Writer, number int) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if number > len(log.entries) {
		number = len(log.entries)
	}
	for _, e := range log.entries[len(log.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

// SetEcho causes every future log entry to also be written to output as
// it arrives. Pass nil to disable echoing.
func SetEcho(output io.Writer) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.echo = output
}
