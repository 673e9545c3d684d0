package snapshot

import (
	"bufio"
	"strings"
)

// listHeaderLines is the number of header lines `qemu-img snapshot -l`
// prints before the first snapshot row:
//
//	Snapshot list:
//	ID        TAG               VM SIZE                DATE     VM CLOCK     ICOUNT
const listHeaderLines = 2

// tagColumn is the 0-based whitespace column holding the snapshot tag.
const tagColumn = 1

// ParseSnapshotList extracts snapshot tags from listing text in row order.
// Blank rows and rows too short to carry a tag are skipped. Text with no
// rows after the headers yields an empty slice.
func ParseSnapshotList(text string) []string {
	tags := []string{}
	scanner := bufio.NewScanner(strings.NewReader(text))
	for line := 0; scanner.Scan(); line++ {
		if line < listHeaderLines {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) <= tagColumn {
			continue
		}
		tags = append(tags, fields[tagColumn])
	}
	return tags
}
