package emailsvc

import (
	"bytes"
	"encoding/json"
	"net/mail"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varadc-2304/admin-command-station/core"
	appfs "github.com/varadc-2304/admin-command-station/fs"
)

type loggerMock struct {
	errors []string
}

func (l *loggerMock) Debug(string, ...interface{}) {}
func (l *loggerMock) Info(string, ...interface{})  {}
func (l *loggerMock) Warn(string, ...interface{})  {}
func (l *loggerMock) Error(msg string, _ ...interface{}) {
	l.errors = append(l.errors, msg)
}
func (l *loggerMock) Fatal(string, ...interface{}) {}

func welcomeMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: "John Doe", Address: "john@techcorp.com"}},
		Subject:      "Welcome aboard",
		TemplateName: "welcome",
		TemplateData: map[string]string{
			"Name":             "John Doe",
			"Email":            "john@techcorp.com",
			"Role":             "admin",
			"OrganizationName": "TechCorp Inc.",
		},
	}
}

func TestConsoleService(t *testing.T) {
	conf := core.NewTestConfig()
	templates := core.NewEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf.FrontendBaseURL, true)
	svc := NewConsoleServiceMock(conf, templates)
	out := new(bytes.Buffer)
	svc.out = out

	svc.SendMessages(welcomeMessage(), &core.EmailMessage{Subject: "no recipient", BodyStr: "hello"})

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "John Doe")
	assert.Contains(t, sent[0].HTMLContent, "TechCorp Inc.")

	body := out.String()
	assert.Contains(t, body, "Subject: ["+conf.AppName+"] Welcome aboard")
	assert.Contains(t, body, "To: \"John Doe\" <john@techcorp.com>")
	assert.Contains(t, body, "Content-Type: text/html")
}

func TestConsoleService_attachments(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewConsoleServiceMock(conf, core.NewEmailTemplates(fstest.MapFS{}, ".", "", false))
	out := new(bytes.Buffer)
	svc.out = out

	msg := &core.EmailMessage{
		To:      []mail.Address{{Address: "jane@techcorp.com"}},
		Subject: "Report",
		BodyStr: "see attached",
	}
	require.NoError(t, msg.Attach(strings.NewReader("a,b\n1,2\n"), "report.csv", "text/csv"))
	svc.SendMessages(msg)

	require.Len(t, svc.SentMessages(), 1)
	body := out.String()
	assert.Contains(t, body, "multipart/mixed")
	assert.Contains(t, body, "attachment; filename=report.csv")
	assert.NotContains(t, body, "text/html")
}

func TestSendgridService_send(t *testing.T) {
	conf := core.NewTestConfig()
	logger := new(loggerMock)
	templates := core.NewEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, conf.FrontendBaseURL, true)
	svc := NewSendgridService(conf, templates, logger)

	var got rest.Request
	svc.api = func(req rest.Request) (*rest.Response, error) {
		got = req
		return &rest.Response{StatusCode: 400, Body: "bad request"}, nil
	}

	msg := welcomeMessage()
	require.NoError(t, msg.Render(templates))
	svc.send(*msg)

	assert.Equal(t, "POST", string(got.Method))
	assert.Equal(t, host+endpoint, got.BaseURL)

	var payload struct {
		Personalizations []struct {
			Subject string `json:"subject"`
		} `json:"personalizations"`
		Content []struct {
			Type string `json:"type"`
		} `json:"content"`
	}
	require.NoError(t, json.Unmarshal(got.Body, &payload))
	require.Len(t, payload.Personalizations, 1)
	assert.Equal(t, "["+conf.AppName+"] Welcome aboard", payload.Personalizations[0].Subject)
	assert.Len(t, payload.Content, 2)

	require.Len(t, logger.errors, 1)
	assert.Contains(t, logger.errors[0], "status: 400")
}
