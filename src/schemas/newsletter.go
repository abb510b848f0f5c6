package schemas

import (
	"io"
	"strings"

	"insights-api/src/domain"
)

// SubscribePreferences is the optional nested preferences object on a
// subscription. A missing object and a present-but-partial object are both
// accepted; only supplied fields are checked.
type SubscribePreferences struct {
	Frequency  string   `json:"frequency" validate:"omitempty,oneof=daily weekly monthly"`
	Categories []string `json:"categories" validate:"omitempty,dive,min=1,max=50"`
}

// SubscribeRequest is the accepted body for POST /api/newsletter/subscribe
type SubscribeRequest struct {
	Email       string                `json:"email" validate:"required,min=5,max=255,email"`
	FirstName   string                `json:"first_name" validate:"omitempty,max=100"`
	LastName    string                `json:"last_name" validate:"omitempty,max=100"`
	Preferences *SubscribePreferences `json:"preferences"`
}

// UnsubscribeRequest is the accepted body for POST /api/newsletter/unsubscribe
type UnsubscribeRequest struct {
	Email string `json:"email" validate:"required,min=5,max=255,email"`
}

// CreateTemplateRequest is the accepted body for POST /api/newsletter/templates
type CreateTemplateRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Subject  string `json:"subject" validate:"required,max=300"`
	Preview  string `json:"preview" validate:"omitempty,max=500"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category" validate:"omitempty,oneof=custom weekly monthly special"`
}

// UpdateTemplateRequest is the accepted body for PUT /api/newsletter/templates/:id.
// All fields optional, no default injection.
type UpdateTemplateRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=200"`
	Subject  *string `json:"subject" validate:"omitnil,min=1,max=300"`
	Preview  *string `json:"preview" validate:"omitnil,max=500"`
	Content  *string `json:"content" validate:"omitnil,min=1"`
	Category *string `json:"category" validate:"omitnil,oneof=custom weekly monthly special"`
}

// SendNewsletterRequest is the accepted body for POST /api/newsletter/send
type SendNewsletterRequest struct {
	TemplateID   string   `json:"template_id" validate:"required,uuid"`
	Subject      string   `json:"subject" validate:"omitempty,max=300"`
	Segment      string   `json:"segment" validate:"omitempty,oneof=all active inactive custom"`
	CustomEmails []string `json:"custom_emails" validate:"omitempty,dive,email"`
}

// ParseSubscribe validates a subscription body
func ParseSubscribe(r io.Reader) (*SubscribeRequest, error) {
	var req SubscribeRequest
	if verr := decodeJSON(r, &req, false); verr != nil {
		return nil, verr
	}

	req.Email = NormalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Preferences != nil {
		req.Preferences.Categories = trimAll(req.Preferences.Categories)
	}

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// ParseUnsubscribe validates an unsubscription body
func ParseUnsubscribe(r io.Reader) (*UnsubscribeRequest, error) {
	var req UnsubscribeRequest
	if verr := decodeJSON(r, &req, false); verr != nil {
		return nil, verr
	}

	req.Email = NormalizeEmail(req.Email)

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// ParseCreateTemplate validates a template creation body. Category defaults
// to custom when omitted.
func ParseCreateTemplate(r io.Reader) (*CreateTemplateRequest, error) {
	var req CreateTemplateRequest
	if verr := decodeJSON(r, &req, false); verr != nil {
		return nil, verr
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Preview = strings.TrimSpace(req.Preview)
	if req.Category == "" {
		req.Category = domain.TemplateCustom.String()
	}

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// ParseUpdateTemplate validates a template patch
func ParseUpdateTemplate(r io.Reader) (*UpdateTemplateRequest, error) {
	var req UpdateTemplateRequest
	if verr := decodeJSON(r, &req, false); verr != nil {
		return nil, verr
	}

	trimPtr(req.Name)
	trimPtr(req.Subject)
	trimPtr(req.Preview)

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// ParseSendNewsletter validates a send body. Segment defaults to all.
func ParseSendNewsletter(r io.Reader) (*SendNewsletterRequest, error) {
	var req SendNewsletterRequest
	if verr := decodeJSON(r, &req, false); verr != nil {
		return nil, verr
	}

	for i := range req.CustomEmails {
		req.CustomEmails[i] = NormalizeEmail(req.CustomEmails[i])
	}
	if req.Segment == "" {
		req.Segment = domain.SegmentAll.String()
	}

	if verr := checkStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}
