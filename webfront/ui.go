package webfront

import (
	"fmt"

	"github.com/webfrontgo/webfront/weblink"
)

// WebLinkId identifies one linked browser session: a monotonically
// increasing 16-bit counter, spec.md §4.9. It wraps around on overflow
// like any fixed-width counter; a server living long enough to link
// 65536 sessions is expected to have recycled earlier ones by then.
type WebLinkId uint16

// UI is the facade handed to the host's onUIStarted callback once a
// WebLink session links, component C10 per spec.md §4.9. Grounded on
// original_source/include/WebFront.hpp's BasicUI and the HelloWorld.cpp
// example's ui.addScript / ui.jsFunction usage.
type UI struct {
	id      WebLinkId
	session *weblink.Session
}

func newUI(id WebLinkId, session *weblink.Session) UI {
	return UI{id: id, session: session}
}

// ID returns this session's WebLinkId.
func (u UI) ID() WebLinkId { return u.id }

// AddScript injects a script into the linked page, via
// TextCommand(injectScript).
func (u UI) AddScript(text string) error {
	return u.session.InjectScript(text)
}

// JSFunction returns an invocable bound to a named JavaScript function
// in the linked page. Each call builds and sends one FunctionCall frame
// carrying name as parameter #0 and args as the following coded
// parameters; args elements must be string, float64, bool, or int
// (encoded as a number). Other integer types are rejected with an error.
//
//	print := ui.JSFunction("addText")
//	print("Hello World", 2022)
func (u UI) JSFunction(name string) func(args ...any) error {
	return func(args ...any) error {
		peerDiffers := u.session.PeerDiffers()
		b := weblink.NewFunctionCallBuilder(name)
		for i, a := range args {
			switch v := a.(type) {
			case string:
				b.AddString(v, peerDiffers)
			case bool:
				b.AddBool(v)
			case float64:
				b.AddNumber(v, peerDiffers)
			case int:
				b.AddNumber(float64(v), peerDiffers)
			default:
				return fmt.Errorf("webfront: jsFunction %q: unsupported argument %d type %T", name, i, a)
			}
		}
		return u.session.CallFunctionBuilt(b)
	}
}
