package schemas_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insights-api/src/schemas"
)

func TestParseSubscribe(t *testing.T) {
	t.Run("email only", func(t *testing.T) {
		req, err := schemas.ParseSubscribe(strings.NewReader(
			`{"email": " Reader@Example.COM "}`))

		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", req.Email)
		assert.Nil(t, req.Preferences)
	})

	t.Run("with preferences", func(t *testing.T) {
		body := `{
			"email": "reader@example.com",
			"first_name": "Famatta",
			"preferences": {"frequency": "daily", "categories": ["politics", "sports"]}
		}`

		req, err := schemas.ParseSubscribe(strings.NewReader(body))

		require.NoError(t, err)
		require.NotNil(t, req.Preferences)
		assert.Equal(t, "daily", req.Preferences.Frequency)
		assert.Equal(t, []string{"politics", "sports"}, req.Preferences.Categories)
	})

	t.Run("partial preferences object", func(t *testing.T) {
		req, err := schemas.ParseSubscribe(strings.NewReader(
			`{"email": "reader@example.com", "preferences": {}}`))

		require.NoError(t, err)
		require.NotNil(t, req.Preferences)
		assert.Empty(t, req.Preferences.Frequency)
	})

	t.Run("invalid frequency", func(t *testing.T) {
		_, err := schemas.ParseSubscribe(strings.NewReader(
			`{"email": "reader@example.com", "preferences": {"frequency": "hourly"}}`))

		verr := requireValidationErrors(t, err)
		fe, found := findFieldError(verr, "preferences.frequency")
		require.True(t, found, "got %+v", verr.Errors)
		assert.Equal(t, schemas.CodeInvalidEnum, fe.Code)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := schemas.ParseSubscribe(strings.NewReader(`{}`))

		verr := requireValidationErrors(t, err)
		fe, found := findFieldError(verr, "email")
		require.True(t, found)
		assert.Equal(t, schemas.CodeRequired, fe.Code)
	})
}

func TestParseUnsubscribe(t *testing.T) {
	req, err := schemas.ParseUnsubscribe(strings.NewReader(`{"email": "Gone@Example.com"}`))

	require.NoError(t, err)
	assert.Equal(t, "gone@example.com", req.Email)
}

func TestParseCreateTemplate(t *testing.T) {
	t.Run("category defaults to custom", func(t *testing.T) {
		req, err := schemas.ParseCreateTemplate(strings.NewReader(
			`{"name": "Week in Review", "subject": "This week", "content": "<h1>News</h1>"}`))

		require.NoError(t, err)
		assert.Equal(t, "custom", req.Category)
	})

	t.Run("accumulates missing fields", func(t *testing.T) {
		_, err := schemas.ParseCreateTemplate(strings.NewReader(`{"preview": "p"}`))

		verr := requireValidationErrors(t, err)
		require.Len(t, verr.Errors, 3)
		for _, field := range []string{"name", "subject", "content"} {
			_, found := findFieldError(verr, field)
			assert.True(t, found, "expected an error on %q", field)
		}
	})

	t.Run("invalid category", func(t *testing.T) {
		_, err := schemas.ParseCreateTemplate(strings.NewReader(
			`{"name": "n", "subject": "s", "content": "c", "category": "daily"}`))

		verr := requireValidationErrors(t, err)
		fe, found := findFieldError(verr, "category")
		require.True(t, found)
		assert.Equal(t, schemas.CodeInvalidEnum, fe.Code)
	})
}

func TestParseUpdateTemplate_EmptyPatch(t *testing.T) {
	req, err := schemas.ParseUpdateTemplate(strings.NewReader(`{}`))

	require.NoError(t, err)
	assert.Nil(t, req.Name)
	assert.Nil(t, req.Category)
}

func TestParseSendNewsletter(t *testing.T) {
	t.Run("segment defaults to all", func(t *testing.T) {
		req, err := schemas.ParseSendNewsletter(strings.NewReader(
			`{"template_id": "8f14e45f-ceea-4e7b-a2ff-6cd471c483f1"}`))

		require.NoError(t, err)
		assert.Equal(t, "all", req.Segment)
	})

	t.Run("template id must be a UUID", func(t *testing.T) {
		_, err := schemas.ParseSendNewsletter(strings.NewReader(
			`{"template_id": "template-7"}`))

		verr := requireValidationErrors(t, err)
		fe, found := findFieldError(verr, "template_id")
		require.True(t, found)
		assert.Equal(t, schemas.CodeInvalidFormat, fe.Code)
	})

	t.Run("custom emails are normalized and validated", func(t *testing.T) {
		req, err := schemas.ParseSendNewsletter(strings.NewReader(
			`{"template_id": "8f14e45f-ceea-4e7b-a2ff-6cd471c483f1",
			  "segment": "custom",
			  "custom_emails": ["One@Example.com", "two@example.com"]}`))

		require.NoError(t, err)
		assert.Equal(t, []string{"one@example.com", "two@example.com"}, req.CustomEmails)
	})

	t.Run("invalid custom email reports its index", func(t *testing.T) {
		_, err := schemas.ParseSendNewsletter(strings.NewReader(
			`{"template_id": "8f14e45f-ceea-4e7b-a2ff-6cd471c483f1",
			  "custom_emails": ["ok@example.com", "not-an-email"]}`))

		verr := requireValidationErrors(t, err)
		fe, found := findFieldError(verr, "custom_emails[1]")
		require.True(t, found, "got %+v", verr.Errors)
		assert.Equal(t, schemas.CodeInvalidFormat, fe.Code)
	})
}
