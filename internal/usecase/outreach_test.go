package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const wellFormed = `WHATSAPP:
Hi John! Loved your SEO inquiry.

EMAIL:
Subject: Your SEO plan

Hi John,

Here is how we can help.

CALL:
Hi John, quick call about SEO?`

func TestOutreachGenerateReturnsModelText(t *testing.T) {
	gen := new(MockTextGenerator)
	lead := sampleLead()
	gen.On("Generate", mock.Anything, outreachSystemPrompt, BuildOutreachPrompt(lead)).Return(wellFormed, nil).Once()

	msgs := NewOutreachGenerator(gen, time.Second, zap.NewNop()).Generate(context.Background(), lead)

	assert.False(t, msgs.Fallback)
	assert.Equal(t, "Hi John! Loved your SEO inquiry.", msgs.Chat)
	assert.Equal(t, "Subject: Your SEO plan\n\nHi John,\n\nHere is how we can help.", msgs.Email)
	assert.Equal(t, "Hi John, quick call about SEO?", msgs.CallScript)
	gen.AssertExpectations(t)
}

func TestOutreachPromptEmbedsLeadAttributes(t *testing.T) {
	lead := sampleLead()
	prompt := BuildOutreachPrompt(lead)

	for _, want := range []string{"John Doe", "SEO", "Google Ads", "Hyderabad", "100/100", "Hot", "WHATSAPP:", "EMAIL:", "CALL:"} {
		assert.Contains(t, prompt, want)
	}
}

func TestOutreachFallbackOnError(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	lead := sampleLead()
	msgs := NewOutreachGenerator(gen, time.Second, zap.NewNop()).Generate(context.Background(), lead)

	assert.True(t, msgs.Fallback)
	assert.Equal(t, FallbackMessages(lead), msgs)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestOutreachFallbackOnUnparseableResponse(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("Sure! Here are some ideas.", nil)

	msgs := NewOutreachGenerator(gen, time.Second, zap.NewNop()).Generate(context.Background(), sampleLead())

	assert.True(t, msgs.Fallback)
}

func TestOutreachFallbackWithoutGenerator(t *testing.T) {
	msgs := NewOutreachGenerator(nil, 0, zap.NewNop()).Generate(context.Background(), sampleLead())

	assert.True(t, msgs.Fallback)
	assert.Contains(t, msgs.Chat, "John Doe")
}

type slowGenerator struct{}

func (slowGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	time.Sleep(2 * time.Second)
	return wellFormed, nil
}

func TestOutreachFallbackOnTimeoutEvenIfGeneratorIgnoresContext(t *testing.T) {
	g := NewOutreachGenerator(slowGenerator{}, 50*time.Millisecond, zap.NewNop())

	start := time.Now()
	msgs := g.Generate(context.Background(), sampleLead())

	assert.True(t, msgs.Fallback)
	assert.Less(t, time.Since(start), time.Second)
}

func TestOutreachPartialResponseFillsMissingChannels(t *testing.T) {
	gen := new(MockTextGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("EMAIL:\nHello John", nil)

	lead := sampleLead()
	msgs := NewOutreachGenerator(gen, time.Second, zap.NewNop()).Generate(context.Background(), lead)
	fallback := FallbackMessages(lead)

	assert.False(t, msgs.Fallback)
	assert.Equal(t, "Hello John", msgs.Email)
	assert.Equal(t, fallback.Chat, msgs.Chat)
	assert.Equal(t, fallback.CallScript, msgs.CallScript)
}

func TestFallbackMessagesContainName(t *testing.T) {
	lead := sampleLead()
	msgs := FallbackMessages(lead)

	for _, text := range []string{msgs.Chat, msgs.Email, msgs.CallScript} {
		require.NotEmpty(t, text)
		assert.Contains(t, text, "John Doe")
		assert.Contains(t, text, "SEO")
	}
	assert.Contains(t, msgs.Email, "Hyderabad")
	assert.Equal(t, msgs, FallbackMessages(lead))
}

func TestParseOutreachResponseVariants(t *testing.T) {
	text := "1. **WHATSAPP:**\nHey there\n2. **EMAIL:**\nSubject: Hi\nBody\n3. **CALL SCRIPT:**\nHello!"

	msgs, err := ParseOutreachResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "Hey there", msgs.Chat)
	assert.Equal(t, "Subject: Hi\nBody", msgs.Email)
	assert.Equal(t, "Hello!", msgs.CallScript)
}

func TestParseOutreachResponseChatAlias(t *testing.T) {
	msgs, err := ParseOutreachResponse("CHAT:\nhi\r\nCALL:\r\nring")
	require.NoError(t, err)
	assert.Equal(t, "hi", msgs.Chat)
	assert.Equal(t, "ring", msgs.CallScript)
	assert.Empty(t, msgs.Email)
}

func TestParseOutreachResponseEmptySections(t *testing.T) {
	_, err := ParseOutreachResponse("WHATSAPP:\n\nEMAIL:\n   \nCALL:")
	assert.Error(t, err)

	_, err = ParseOutreachResponse(strings.Repeat("nothing useful ", 10))
	assert.Error(t, err)
}

func TestParseOutreachResponseKeepsLabelLikeBodyLines(t *testing.T) {
	text := "WHATSAPP:\nHi John!\nEmail: reply to john@email.com anytime\n\n" +
		"EMAIL:\nSubject: SEO\n\nHi John, real email.\n\n" +
		"CALL:\nCall: ask about the budget first"

	msgs, err := ParseOutreachResponse(text)
	require.NoError(t, err)
	assert.Equal(t, "Hi John!\nEmail: reply to john@email.com anytime", msgs.Chat)
	assert.Equal(t, "Subject: SEO\n\nHi John, real email.", msgs.Email)
	assert.Equal(t, "Call: ask about the budget first", msgs.CallScript)
}

func TestParseOutreachResponseIgnoresLowerCaseAndInlineLabels(t *testing.T) {
	_, err := ParseOutreachResponse("Email: hello\nWHATSAPP: hi there")
	assert.Error(t, err)
}

func TestOutreachGeneratorEnabled(t *testing.T) {
	assert.False(t, NewOutreachGenerator(nil, 0, zap.NewNop()).Enabled())
	assert.True(t, NewOutreachGenerator(new(MockTextGenerator), 0, zap.NewNop()).Enabled())

	var g *OutreachGenerator
	assert.False(t, g.Enabled())
}
