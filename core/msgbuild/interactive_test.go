package msgbuild

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/util/ptr"

	"github.com/iKonoTelecomunicaciones/whatsapp-compose/core/waproto"
)

func TestInteractive_ButtonsOnText(t *testing.T) {
	msg := compileOK(t, &Descriptor{
		Text: &TextSpec{Text: "pick one"},
		Interactive: &InteractiveSpec{
			Footer: "powered by tests",
			Buttons: []ButtonSpec{
				{ID: "yes", DisplayText: "Yes"},
				{ID: "no", DisplayText: "No"},
			},
		},
	})
	bm := msg.ButtonsMessage
	require.NotNil(t, bm)
	assert.Equal(t, "pick one", *bm.ContentText)
	assert.Equal(t, "powered by tests", *bm.FooterText)
	assert.Equal(t, waproto.ButtonsHeaderEmpty, *bm.HeaderType)
	require.Len(t, bm.Buttons, 2)
	assert.Equal(t, "yes", *bm.Buttons[0].ButtonID)
	assert.Equal(t, "Yes", *bm.Buttons[0].ButtonText.DisplayText)
}

func TestInteractive_ButtonsTitleHeader(t *testing.T) {
	msg := compileOK(t, &Descriptor{
		Text: &TextSpec{Text: "body"},
		Interactive: &InteractiveSpec{
			Title:   "heading",
			Buttons: []ButtonSpec{{ID: "a", DisplayText: "A"}},
		},
	})
	bm := msg.ButtonsMessage
	require.NotNil(t, bm)
	assert.Equal(t, waproto.ButtonsHeaderText, *bm.HeaderType)
	assert.Equal(t, "heading", *bm.Text)
}

func TestInteractive_ButtonsOnImageBase(t *testing.T) {
	img := &waproto.ImageMessage{
		URL:     ptr.Ptr("https://example.com/i"),
		Caption: ptr.Ptr("look"),
	}
	out, err := compileButtons(&InteractiveSpec{
		Buttons: []ButtonSpec{{ID: "a", DisplayText: "A"}},
	}, &waproto.Message{ImageMessage: img})
	require.NoError(t, err)
	bm := out.ButtonsMessage
	require.NotNil(t, bm)
	assert.Same(t, img, bm.ImageMessage)
	assert.Equal(t, "look", *bm.ContentText)
	assert.Equal(t, waproto.ButtonsHeaderImage, *bm.HeaderType)
}

func TestInteractive_ButtonsRejectUnsupportedBase(t *testing.T) {
	_, err := compileButtons(&InteractiveSpec{
		Buttons: []ButtonSpec{{ID: "a", DisplayText: "A"}},
	}, &waproto.Message{ReactionMessage: &waproto.ReactionMessage{}})
	require.ErrorContains(t, err, "buttons cannot attach")
}

func TestInteractive_List(t *testing.T) {
	msg := compileOK(t, &Descriptor{
		Text: &TextSpec{Text: "choose"},
		Interactive: &InteractiveSpec{
			ListTitle:      "menu",
			ListButtonText: "Open",
			Sections: []SectionSpec{{
				Title: "Mains",
				Rows: []RowSpec{
					{Title: "Pizza", RowID: "r1"},
					{Title: "Pasta", RowID: "r2", Description: "fresh"},
				},
			}},
		},
	})
	lm := msg.ListMessage
	require.NotNil(t, lm)
	assert.Equal(t, "menu", *lm.Title)
	assert.Equal(t, "choose", *lm.Description)
	assert.Equal(t, "Open", *lm.ButtonText)
	assert.Equal(t, waproto.ListTypeSingleSelect, *lm.ListType)
	require.Len(t, lm.Sections, 1)
	require.Len(t, lm.Sections[0].Rows, 2)
	assert.Equal(t, "r2", *lm.Sections[0].Rows[1].RowID)
}

func TestInteractive_ListRequiresButtonText(t *testing.T) {
	_, err := (&Compiler{}).Compile(context.Background(), testChat, &Descriptor{
		Text: &TextSpec{Text: "choose"},
		Interactive: &InteractiveSpec{
			Sections: []SectionSpec{{Rows: []RowSpec{{Title: "x", RowID: "r"}}}},
		},
	})
	require.ErrorContains(t, err, "requires buttonText")
}

func TestInteractive_TemplateButtons(t *testing.T) {
	msg := compileOK(t, &Descriptor{
		Text: &TextSpec{Text: "offer"},
		Interactive: &InteractiveSpec{
			TemplateButtons: []TemplateButtonSpec{
				{DisplayText: "Reply", ID: "q1"},
				{DisplayText: "Site", URL: "https://example.com"},
				{DisplayText: "Call", PhoneNumber: "+15550001111"},
			},
		},
	})
	tpl := msg.TemplateMessage
	require.NotNil(t, tpl)
	require.NotNil(t, tpl.HydratedTemplate)
	buttons := tpl.HydratedTemplate.HydratedButtons
	require.Len(t, buttons, 3)
	assert.NotNil(t, buttons[0].QuickReplyButton)
	assert.NotNil(t, buttons[1].URLButton)
	assert.NotNil(t, buttons[2].CallButton)
	assert.Equal(t, uint32(1), *buttons[0].Index)
	assert.Equal(t, uint32(3), *buttons[2].Index)
}

func TestInteractive_NativeFlowButtonClassification(t *testing.T) {
	cases := []struct {
		name   string
		spec   NativeFlowButtonSpec
		flow   string
		params map[string]string
	}{
		{
			name:   "quick reply",
			spec:   NativeFlowButtonSpec{DisplayText: "Hi", ID: "b1"},
			flow:   "quick_reply",
			params: map[string]string{"display_text": "Hi", "id": "b1"},
		},
		{
			name:   "copy outranks url",
			spec:   NativeFlowButtonSpec{DisplayText: "Code", CopyCode: "SAVE10", URL: "https://x"},
			flow:   "cta_copy",
			params: map[string]string{"display_text": "Code", "copy_code": "SAVE10"},
		},
		{
			name: "url",
			spec: NativeFlowButtonSpec{DisplayText: "Open", URL: "https://example.com"},
			flow: "cta_url",
			params: map[string]string{
				"display_text": "Open",
				"url":          "https://example.com",
				"merchant_url": "https://example.com",
			},
		},
		{
			name:   "call",
			spec:   NativeFlowButtonSpec{DisplayText: "Call", Call: "+15550001111"},
			flow:   "cta_call",
			params: map[string]string{"display_text": "Call", "phone_number": "+15550001111"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			button, err := classifyNativeFlowButton(tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.flow, *button.Name)
			var got map[string]string
			require.NoError(t, json.Unmarshal([]byte(*button.ButtonParamsJSON), &got))
			assert.Equal(t, tc.params, got)
		})
	}
}

func TestInteractive_NativeFlowButtonPassthrough(t *testing.T) {
	button, err := classifyNativeFlowButton(NativeFlowButtonSpec{
		Name:       "single_select",
		ParamsJSON: `{"title":"pick"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "single_select", *button.Name)
	assert.Equal(t, `{"title":"pick"}`, *button.ButtonParamsJSON)

	_, err = classifyNativeFlowButton(NativeFlowButtonSpec{DisplayText: "empty"})
	require.ErrorContains(t, err, "has no payload")
}

func TestInteractive_NativeFlowMessage(t *testing.T) {
	msg := compileOK(t, &Descriptor{
		Text: &TextSpec{Text: "body text"},
		Interactive: &InteractiveSpec{
			Title:  "header",
			Footer: "footer",
			NativeFlowButtons: []NativeFlowButtonSpec{
				{DisplayText: "Go", URL: "https://example.com"},
			},
		},
	})
	im := msg.InteractiveMessage
	require.NotNil(t, im)
	require.NotNil(t, im.NativeFlowMessage)
	assert.Equal(t, int32(1), *im.NativeFlowMessage.MessageVersion)
	require.Len(t, im.NativeFlowMessage.Buttons, 1)
	assert.Equal(t, "cta_url", *im.NativeFlowMessage.Buttons[0].Name)
	assert.Equal(t, "body text", *im.Body.Text)
	assert.Equal(t, "footer", *im.Footer.Text)
	assert.Equal(t, "header", *im.Header.Title)
}

func TestInteractive_NativeFlowCouponParams(t *testing.T) {
	msg := compileOK(t, &Descriptor{
		Text: &TextSpec{Text: "deal"},
		Interactive: &InteractiveSpec{
			NativeFlowButtons: []NativeFlowButtonSpec{
				{DisplayText: "Copy", CopyCode: "SAVE10"},
			},
			Coupon: &CouponSpec{Code: "SAVE10", ExpirationTime: 1735689600},
		},
	})
	flow := msg.InteractiveMessage.NativeFlowMessage
	require.NotNil(t, flow.MessageParamsJSON)
	var params map[string]any
	require.NoError(t, json.Unmarshal([]byte(*flow.MessageParamsJSON), &params))
	coupon, ok := params["coupon"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SAVE10", coupon["code"])
}

func TestInteractive_CarouselRequiresCardHeader(t *testing.T) {
	_, err := (&Compiler{}).Compile(context.Background(), testChat, &Descriptor{
		Text: &TextSpec{Text: "cards"},
		Interactive: &InteractiveSpec{
			Cards: []CardSpec{{Title: "no header"}},
		},
	})
	require.ErrorContains(t, err, "carousel card 0 requires a header")
}

func TestInteractive_Carousel(t *testing.T) {
	msg := compileOK(t, &Descriptor{
		Text: &TextSpec{Text: "browse"},
		Interactive: &InteractiveSpec{
			Cards: []CardSpec{{
				Title:  "card one",
				Body:   "first",
				Header: &HeaderSpec{Location: &LocationSpec{Latitude: 1, Longitude: 2}},
				Buttons: []NativeFlowButtonSpec{
					{DisplayText: "Pick", ID: "c1"},
				},
			}},
		},
	})
	im := msg.InteractiveMessage
	require.NotNil(t, im)
	require.NotNil(t, im.CarouselMessage)
	require.Len(t, im.CarouselMessage.Cards, 1)
	card := im.CarouselMessage.Cards[0]
	assert.Equal(t, "card one", *card.Header.Title)
	assert.NotNil(t, card.Header.LocationMessage)
	assert.Equal(t, "first", *card.Body.Text)
	require.Len(t, card.NativeFlowMessage.Buttons, 1)
	assert.Equal(t, "browse", *im.Body.Text)
}

func TestInteractive_AttachmentPrecedence(t *testing.T) {
	// Native flow outranks classic buttons when both are present.
	msg := compileOK(t, &Descriptor{
		Text: &TextSpec{Text: "both"},
		Interactive: &InteractiveSpec{
			Buttons:           []ButtonSpec{{ID: "a", DisplayText: "A"}},
			NativeFlowButtons: []NativeFlowButtonSpec{{DisplayText: "B", ID: "b"}},
		},
	})
	assert.NotNil(t, msg.InteractiveMessage)
	assert.Nil(t, msg.ButtonsMessage)
}
