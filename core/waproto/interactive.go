package waproto

// ButtonsMessage is the classic three-button message. The header is one of
// text/image/video/document/location.
type ButtonsMessage struct {
	ContentText     *string          `json:"contentText,omitempty"`
	FooterText      *string          `json:"footerText,omitempty"`
	HeaderType      *int32           `json:"headerType,omitempty"`
	Text            *string          `json:"text,omitempty"`
	ImageMessage    *ImageMessage    `json:"imageMessage,omitempty"`
	VideoMessage    *VideoMessage    `json:"videoMessage,omitempty"`
	DocumentMessage *DocumentMessage `json:"documentMessage,omitempty"`
	LocationMessage *LocationMessage `json:"locationMessage,omitempty"`
	Buttons         []*Button        `json:"buttons,omitempty"`
	ContextInfo     *ContextInfo     `json:"contextInfo,omitempty"`
}

const (
	ButtonsHeaderEmpty    int32 = 0
	ButtonsHeaderText     int32 = 1
	ButtonsHeaderDocument int32 = 3
	ButtonsHeaderImage    int32 = 4
	ButtonsHeaderVideo    int32 = 5
	ButtonsHeaderLocation int32 = 6
)

type Button struct {
	ButtonID   *string     `json:"buttonId,omitempty"`
	ButtonText *ButtonText `json:"buttonText,omitempty"`
	Type       *int32      `json:"type,omitempty"`
}

type ButtonText struct {
	DisplayText *string `json:"displayText,omitempty"`
}

type ButtonsResponseMessage struct {
	SelectedButtonID    *string      `json:"selectedButtonId,omitempty"`
	SelectedDisplayText *string      `json:"selectedDisplayText,omitempty"`
	Type                *int32       `json:"type,omitempty"`
	ContextInfo         *ContextInfo `json:"contextInfo,omitempty"`
}

type ListMessage struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	ButtonText  *string        `json:"buttonText,omitempty"`
	ListType    *int32         `json:"listType,omitempty"`
	Sections    []*ListSection `json:"sections,omitempty"`
	FooterText  *string        `json:"footerText,omitempty"`
	ContextInfo *ContextInfo   `json:"contextInfo,omitempty"`
}

const (
	ListTypeUnknown      int32 = 0
	ListTypeSingleSelect int32 = 1
	ListTypeProductList  int32 = 2
)

type ListSection struct {
	Title *string    `json:"title,omitempty"`
	Rows  []*ListRow `json:"rows,omitempty"`
}

type ListRow struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	RowID       *string `json:"rowId,omitempty"`
}

type ListResponseMessage struct {
	Title             *string            `json:"title,omitempty"`
	ListType          *int32             `json:"listType,omitempty"`
	SingleSelectReply *SingleSelectReply `json:"singleSelectReply,omitempty"`
	Description       *string            `json:"description,omitempty"`
	ContextInfo       *ContextInfo       `json:"contextInfo,omitempty"`
}

type SingleSelectReply struct {
	SelectedRowID *string `json:"selectedRowId,omitempty"`
}

// TemplateMessage carries either a hydrated four-row template or an
// interactive message re-expressed as a template.
type TemplateMessage struct {
	HydratedTemplate           *HydratedFourRowTemplate `json:"hydratedTemplate,omitempty"`
	InteractiveMessageTemplate *InteractiveMessage      `json:"interactiveMessageTemplate,omitempty"`
	ContextInfo                *ContextInfo             `json:"contextInfo,omitempty"`
}

type HydratedFourRowTemplate struct {
	HydratedContentText *string                   `json:"hydratedContentText,omitempty"`
	HydratedFooterText  *string                   `json:"hydratedFooterText,omitempty"`
	HydratedButtons     []*HydratedTemplateButton `json:"hydratedButtons,omitempty"`
	TemplateID          *string                   `json:"templateId,omitempty"`
	HydratedTitleText   *string                   `json:"hydratedTitleText,omitempty"`
	ImageMessage        *ImageMessage             `json:"imageMessage,omitempty"`
	VideoMessage        *VideoMessage             `json:"videoMessage,omitempty"`
	DocumentMessage     *DocumentMessage          `json:"documentMessage,omitempty"`
	LocationMessage     *LocationMessage          `json:"locationMessage,omitempty"`
}

type HydratedTemplateButton struct {
	Index            *uint32             `json:"index,omitempty"`
	QuickReplyButton *HydratedQuickReply `json:"quickReplyButton,omitempty"`
	URLButton        *HydratedURLButton  `json:"urlButton,omitempty"`
	CallButton       *HydratedCallButton `json:"callButton,omitempty"`
}

type HydratedQuickReply struct {
	DisplayText *string `json:"displayText,omitempty"`
	ID          *string `json:"id,omitempty"`
}

type HydratedURLButton struct {
	DisplayText *string `json:"displayText,omitempty"`
	URL         *string `json:"url,omitempty"`
}

type HydratedCallButton struct {
	DisplayText *string `json:"displayText,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// InteractiveMessage is the native-flow/carousel container.
type InteractiveMessage struct {
	Header            *InteractiveHeader `json:"header,omitempty"`
	Body              *InteractiveBody   `json:"body,omitempty"`
	Footer            *InteractiveFooter `json:"footer,omitempty"`
	NativeFlowMessage *NativeFlowMessage `json:"nativeFlowMessage,omitempty"`
	CarouselMessage   *CarouselMessage   `json:"carouselMessage,omitempty"`
	ContextInfo       *ContextInfo       `json:"contextInfo,omitempty"`
}

type InteractiveHeader struct {
	Title              *string          `json:"title,omitempty"`
	Subtitle           *string          `json:"subtitle,omitempty"`
	HasMediaAttachment *bool            `json:"hasMediaAttachment,omitempty"`
	ImageMessage       *ImageMessage    `json:"imageMessage,omitempty"`
	VideoMessage       *VideoMessage    `json:"videoMessage,omitempty"`
	DocumentMessage    *DocumentMessage `json:"documentMessage,omitempty"`
	LocationMessage    *LocationMessage `json:"locationMessage,omitempty"`
	ProductMessage     *ProductMessage  `json:"productMessage,omitempty"`
	JPEGThumbnail      []byte           `json:"jpegThumbnail,omitempty"`
}

type InteractiveBody struct {
	Text *string `json:"text,omitempty"`
}

type InteractiveFooter struct {
	Text *string `json:"text,omitempty"`
}

type NativeFlowMessage struct {
	Buttons           []*NativeFlowButton `json:"buttons,omitempty"`
	MessageParamsJSON *string             `json:"messageParamsJson,omitempty"`
	MessageVersion    *int32              `json:"messageVersion,omitempty"`
}

type NativeFlowButton struct {
	Name             *string `json:"name,omitempty"`
	ButtonParamsJSON *string `json:"buttonParamsJson,omitempty"`
}

type CarouselMessage struct {
	Cards          []*InteractiveMessage `json:"cards,omitempty"`
	MessageVersion *int32                `json:"messageVersion,omitempty"`
}

// InteractiveResponse is the reply side of a native flow.
type InteractiveResponse struct {
	Body               *InteractiveBody    `json:"body,omitempty"`
	NativeFlowResponse *NativeFlowResponse `json:"nativeFlowResponseMessage,omitempty"`
	ContextInfo        *ContextInfo        `json:"contextInfo,omitempty"`
}

type NativeFlowResponse struct {
	Name       *string `json:"name,omitempty"`
	ParamsJSON *string `json:"paramsJson,omitempty"`
	Version    *int32  `json:"version,omitempty"`
}
