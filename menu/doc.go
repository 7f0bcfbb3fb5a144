// This file is part of nuc1261-fwreloc.
//
// nuc1261-fwreloc is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// nuc1261-fwreloc is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with nuc1261-fwreloc.  If not, see <https://www.gnu.org/licenses/>.

// Package menu puts the controlling terminal into cbreak mode so the
// ota-host interactive menu can read a single keypress without waiting
// for Enter, the way the original Python host's input()-driven menu
// appeared to the user even though Python itself always line-buffers.
package menu
