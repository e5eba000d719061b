package pagectx

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// safetyNetDefault is how long a pending dialog waits for the planner
// before it resolves itself.
const safetyNetDefault = 10 * time.Second

// pendingDialog is the single-slot mailbox for an open JS dialog. The
// safety-net timer and HandleDialog are the two consumers; clearing the
// timer before resolving the handle keeps them from racing each other.
type pendingDialog struct {
	Type    string
	Message string
	page    *rod.Page
	timer   *time.Timer
}

// Banner renders the pending dialog as a one-line prefix prepended to the
// symbolic state text, so the planner always sees it before anything else
// (spec §8 scenario 4: "⚠️ [Alert Dialog] Type: confirm, Message: ...").
func (d *pendingDialog) Banner() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("⚠️ [Alert Dialog] Type: %s, Message: %s", d.Type, d.Message)
}

func (d *pendingDialog) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
	}
}

// resolve sends the CDP accept/dismiss response for this dialog.
func (d *pendingDialog) resolve(accept bool) error {
	return proto.PageHandleJavaScriptDialog{Accept: accept}.Call(d.page)
}
