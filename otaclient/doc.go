// Package otaclient drives the application-side OTA/status session: it
// asks a running firmware image to report its OTA state, request an
// update, switch banks, or drop into the bootloader, and decodes the
// FWStatus/FWMetadata records each of those commands returns.
package otaclient
