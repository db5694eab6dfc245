package models

// OutboundMessage is a text notification pushed to an operator.
type OutboundMessage struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
