package emailsvc

import (
	"bytes"
	"log"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tracklearn/core"
	"github.com/trezcool/tracklearn/tests"
)

func testMessage() core.EmailMessage {
	return core.EmailMessage{
		To:          []mail.Address{{Name: "Alice", Address: "alice@test.cd"}},
		Cc:          []mail.Address{{Address: "teacher@test.cd"}},
		Subject:     "New test in Algebra 101: Quiz 1",
		TextContent: "Hi Alice",
		HTMLContent: "<p>Hi Alice</p>",
	}
}

func TestConsoleService(t *testing.T) {
	conf := testutil.NewConfig()
	var out bytes.Buffer
	svc := NewConsoleService(log.New(&out, "", 0), conf)
	svc.sync = true

	msg := testMessage()
	noRecipient := testMessage()
	noRecipient.To = nil
	noContent := testMessage()
	noContent.TextContent, noContent.HTMLContent = "", ""

	svc.SendMessages(&msg, &noRecipient, &noContent)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "["+conf.AppName+"] New test in Algebra 101: Quiz 1", sent[0].Subject)
	assert.Equal(t, "New test in Algebra 101: Quiz 1", msg.Subject, "the caller's message is left untouched")
	assert.Contains(t, out.String(), `To: "Alice" <alice@test.cd>`)
	assert.Contains(t, out.String(), "CC: <teacher@test.cd>")
	assert.Contains(t, out.String(), "Hi Alice")
	assert.NotContains(t, out.String(), "<p>")

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}

func TestConsoleService_asyncKeepsNoRecord(t *testing.T) {
	conf := testutil.NewConfig()
	svc := NewConsoleService(nil, conf)

	msg := testMessage()
	svc.send(msg)
	assert.Empty(t, svc.SentMessages())
}

func TestSendgridService_prepare(t *testing.T) {
	conf := testutil.NewConfig()
	svc := NewSendgridService(conf, nil)

	m := svc.prepare(testMessage())
	require.Len(t, m.Personalizations, 1)
	p := m.Personalizations[0]
	assert.Equal(t, "["+conf.AppName+"] New test in Algebra 101: Quiz 1", p.Subject)
	require.Len(t, p.To, 1)
	assert.Equal(t, "alice@test.cd", p.To[0].Address)
	require.Len(t, p.CC, 1)
	assert.Equal(t, conf.DefaultFromEmail().Address, m.From.Address)

	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "text/html", m.Content[1].Type)

	textOnly := testMessage()
	textOnly.HTMLContent = ""
	m = svc.prepare(textOnly)
	require.Len(t, m.Content, 1)
	assert.Equal(t, "Hi Alice", m.Content[0].Value)
}
