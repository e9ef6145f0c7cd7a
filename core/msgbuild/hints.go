package msgbuild

import (
	waBinary "go.mau.fi/whatsmeow/binary"

	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/waproto"
)

// nativeFlowSpecials are the flow names that must be announced with a
// nested v9 native_flow node instead of the generic mixed classification.
var nativeFlowSpecials = map[string]struct{}{
	"mpm":                                    {},
	"cta_catalog":                            {},
	"send_location":                          {},
	"call_permission_request":                {},
	"wa_payment_transaction_details":         {},
	"automated_greeting_message_view_catalog": {},
}

// TransportHints returns the auxiliary stanza nodes announcing interactive
// content to the transport, in emit order. Non-interactive messages yield
// no hint. The AI modifier appends a bot node regardless of content.
func TransportHints(msg *waproto.Message, ai bool) []waBinary.Node {
	var nodes []waBinary.Node
	if hint, ok := bizHint(msg); ok {
		nodes = append(nodes, hint)
	}
	if ai {
		nodes = append(nodes, waBinary.Node{
			Tag:   "bot",
			Attrs: waBinary.Attrs{"biz_bot": "1"},
		})
	}
	return nodes
}

// bizHint classifies the normalized content into the biz announcement node.
func bizHint(msg *waproto.Message) (waBinary.Node, bool) {
	msg = Normalize(msg)
	if msg == nil {
		return waBinary.Node{}, false
	}
	flow := nativeFlowOf(msg)
	name := firstFlowButtonName(flow)
	switch {
	case flow != nil && name == "review_and_pay":
		return waBinary.Node{
			Tag:   "biz",
			Attrs: waBinary.Attrs{"native_flow_name": "order_details"},
		}, true
	case flow != nil && name == "payment_info":
		return waBinary.Node{
			Tag:   "biz",
			Attrs: waBinary.Attrs{"native_flow_name": "payment_info"},
		}, true
	case flow != nil && isSpecialFlow(name):
		return waBinary.Node{
			Tag: "biz",
			Content: []waBinary.Node{{
				Tag:   "interactive",
				Attrs: waBinary.Attrs{"type": "native_flow", "v": "1"},
				Content: []waBinary.Node{{
					Tag:   "native_flow",
					Attrs: waBinary.Attrs{"v": "9", "name": name},
				}},
			}},
		}, true
	case flow != nil || msg.ButtonsMessage != nil:
		return waBinary.Node{
			Tag: "biz",
			Content: []waBinary.Node{{
				Tag:   "interactive",
				Attrs: waBinary.Attrs{"type": "native_flow", "v": "1"},
				Content: []waBinary.Node{{
					Tag:   "native_flow",
					Attrs: waBinary.Attrs{"v": "2", "name": "mixed"},
				}},
			}},
		}, true
	case msg.ListMessage != nil:
		return waBinary.Node{
			Tag: "biz",
			Content: []waBinary.Node{{
				Tag:   "list",
				Attrs: waBinary.Attrs{"v": "2", "type": "product_list"},
			}},
		}, true
	case msg.TemplateMessage != nil, msg.InteractiveMessage != nil,
		msg.ButtonsResponseMessage != nil, msg.ListResponseMessage != nil,
		msg.InteractiveResponseMessage != nil:
		return waBinary.Node{Tag: "biz"}, true
	default:
		return waBinary.Node{}, false
	}
}

func nativeFlowOf(msg *waproto.Message) *waproto.NativeFlowMessage {
	switch {
	case msg.InteractiveMessage != nil:
		return msg.InteractiveMessage.NativeFlowMessage
	case msg.TemplateMessage != nil && msg.TemplateMessage.InteractiveMessageTemplate != nil:
		return msg.TemplateMessage.InteractiveMessageTemplate.NativeFlowMessage
	default:
		return nil
	}
}

func firstFlowButtonName(flow *waproto.NativeFlowMessage) string {
	if flow == nil || len(flow.Buttons) == 0 || flow.Buttons[0].Name == nil {
		return ""
	}
	return *flow.Buttons[0].Name
}

func isSpecialFlow(name string) bool {
	_, ok := nativeFlowSpecials[name]
	return ok
}
