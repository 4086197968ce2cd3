package book

import (
	"fmt"

	"github.com/FocuswithJustin/CedarBible/internal/logging"
)

// Notice is one content-quality finding with a 0-100 priority. Priorities
// at or above CriticalPriority indicate structural damage; everything below
// is cosmetic or advisory.
type Notice struct {
	Priority int
	BBB      string
	C, V     string
	Message  string
}

// CriticalPriority is the threshold separating structural problems from
// cosmetic ones.
const CriticalPriority = 80

func (n Notice) String() string {
	loc := n.BBB
	if n.C != "" {
		loc += " " + n.C
		if n.V != "" {
			loc += ":" + n.V
		}
	}
	if loc != "" {
		return fmt.Sprintf("%s %s (%d)", loc, n.Message, n.Priority)
	}
	return fmt.Sprintf("%s (%d)", n.Message, n.Priority)
}

// NoticeList accumulates notices for one book. To keep repeated listings
// readable, a notice repeating the previous one's book or chapter has those
// fields blanked; runs of identical low-priority notices beyond the cap are
// counted but not stored.
type NoticeList struct {
	bbb           string
	items         []Notice
	maxNoncrit    int
	noncritCount  int
	suppressed    int
	lastBBB       string
	lastC         string
}

// NewNoticeList creates a collector for one book. maxNoncritical <= 0 means
// unlimited.
func NewNoticeList(bbb string, maxNoncritical int) *NoticeList {
	return &NoticeList{bbb: bbb, maxNoncrit: maxNoncritical}
}

// Add records one notice and mirrors it to the structured log.
func (n *NoticeList) Add(priority int, c, v, msg string) {
	logging.ContentNotice(n.bbb, priority, c, v, msg)
	if priority < CriticalPriority && n.maxNoncrit > 0 {
		n.noncritCount++
		if n.noncritCount > n.maxNoncrit {
			n.suppressed++
			return
		}
	}
	notice := Notice{Priority: priority, BBB: n.bbb, C: c, V: v, Message: msg}
	if notice.BBB == n.lastBBB {
		notice.BBB = ""
		if c != "" && c == n.lastC {
			notice.C = ""
		}
	}
	n.lastBBB = n.bbb
	if c != "" {
		n.lastC = c
	}
	n.items = append(n.items, notice)
}

// All returns the stored notices in order of discovery.
func (n *NoticeList) All() []Notice { return n.items }

// Len returns the number of stored notices.
func (n *NoticeList) Len() int { return len(n.items) }

// Suppressed returns how many low-priority notices were dropped by the cap.
func (n *NoticeList) Suppressed() int { return n.suppressed }

// Critical returns only the notices at or above CriticalPriority.
func (n *NoticeList) Critical() []Notice {
	var out []Notice
	for _, item := range n.items {
		if item.Priority >= CriticalPriority {
			out = append(out, item)
		}
	}
	return out
}
