package live

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"amiquin/internal/activity"
	"amiquin/internal/ai"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	lastMsgs []ai.Message
}

func (f *fakeProvider) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastMsgs = messages
	return f.reply, f.err
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSender struct {
	mu       sync.Mutex
	channels []string
	contents []string
	err      error
}

func (f *fakeSender) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.channels = append(f.channels, channelID)
	f.contents = append(f.contents, content)
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

type fakeRecorder struct {
	mu     sync.Mutex
	msgs   []activity.Message
	guilds []string
}

func (f *fakeRecorder) RecordMessage(msg activity.Message, guildID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	f.guilds = append(f.guilds, guildID)
}

func TestExecutor_SendsToLastActiveChannel(t *testing.T) {
	provider := &fakeProvider{reply: "hello chat"}
	signals := &fakeSignals{channel: "chan-7", ctxMsgs: []string{"hi", "what's up"}}
	sender := &fakeSender{}
	recorder := &fakeRecorder{}
	e := NewExecutor(provider, signals, recorder, sender, "")

	reply, err := e.Execute(context.Background(), ActionAskQuestion, "g1")
	require.NoError(t, err)
	assert.Equal(t, "hello chat", reply)

	require.Equal(t, []string{"chan-7"}, sender.channels)
	assert.Equal(t, []string{"hello chat"}, sender.contents)

	// The reply flows back into the activity buffer as an assistant message.
	require.Len(t, recorder.msgs, 1)
	assert.Equal(t, "assistant", recorder.msgs[0].Role)
	assert.Equal(t, "hello chat", recorder.msgs[0].Content)
	assert.Equal(t, "chan-7", recorder.msgs[0].ChannelID)
	assert.Equal(t, []string{"g1"}, recorder.guilds)

	// Prompt carries the persona and the recent context.
	require.Len(t, provider.lastMsgs, 2)
	assert.Equal(t, "system", provider.lastMsgs[0].Role)
	assert.Contains(t, provider.lastMsgs[0].Content, DefaultPersona)
	assert.Contains(t, provider.lastMsgs[1].Content, "what's up")
}

func TestExecutor_NoChannelNothingGenerated(t *testing.T) {
	provider := &fakeProvider{reply: "should not be used"}
	signals := &fakeSignals{channel: ""}
	sender := &fakeSender{}
	e := NewExecutor(provider, signals, &fakeRecorder{}, sender, "")

	reply, err := e.Execute(context.Background(), ActionCheckIn, "g1")
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Zero(t, provider.callCount())
	assert.Empty(t, sender.contents)
}

func TestExecutor_EmptyReplyIsNotAnError(t *testing.T) {
	provider := &fakeProvider{reply: "   "}
	signals := &fakeSignals{channel: "chan-1", ctxMsgs: []string{"hi"}}
	sender := &fakeSender{}
	recorder := &fakeRecorder{}
	e := NewExecutor(provider, signals, recorder, sender, "")

	reply, err := e.Execute(context.Background(), ActionShareFact, "g1")
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Empty(t, sender.contents)
	assert.Empty(t, recorder.msgs)
}

func TestExecutor_LongReplyChunked(t *testing.T) {
	long := strings.Repeat("a", 4500)
	provider := &fakeProvider{reply: long}
	signals := &fakeSignals{channel: "chan-1", ctxMsgs: []string{"hi"}}
	sender := &fakeSender{}
	e := NewExecutor(provider, signals, &fakeRecorder{}, sender, "")

	reply, err := e.Execute(context.Background(), ActionShareThought, "g1")
	require.NoError(t, err)
	assert.Equal(t, long, reply)

	require.Len(t, sender.contents, 3)
	for _, chunk := range sender.contents {
		assert.LessOrEqual(t, len(chunk), 2000)
		assert.NotEmpty(t, chunk)
	}
	assert.Equal(t, long, strings.Join(sender.contents, ""))
}

func TestExecutor_UnknownActionErrors(t *testing.T) {
	signals := &fakeSignals{channel: "chan-1"}
	e := NewExecutor(&fakeProvider{}, signals, &fakeRecorder{}, &fakeSender{}, "")

	_, err := e.Execute(context.Background(), Action(99), "g1")
	assert.Error(t, err)
}

func TestExecutor_SenderErrorPropagates(t *testing.T) {
	provider := &fakeProvider{reply: "hi"}
	signals := &fakeSignals{channel: "chan-1", ctxMsgs: []string{"hi"}}
	sender := &fakeSender{err: errors.New("missing permissions")}
	recorder := &fakeRecorder{}
	e := NewExecutor(provider, signals, recorder, sender, "")

	_, err := e.Execute(context.Background(), ActionTellJoke, "g1")
	require.Error(t, err)
	assert.Empty(t, recorder.msgs, "failed send must not be recorded")
}

func TestSplitMessage_ShortPassthrough(t *testing.T) {
	assert.Equal(t, []string{"hello"}, SplitMessage("hello", 2000))
	assert.Empty(t, SplitMessage("", 2000))
}

func TestSplitMessage_PrefersNewlines(t *testing.T) {
	chunks := SplitMessage("aaa\nbbb", 5)
	assert.Equal(t, []string{"aaa", "bbb"}, chunks)
}

func TestSplitMessage_NeverEmitsEmptyChunks(t *testing.T) {
	inputs := []string{
		"\n" + strings.Repeat("a", 10),
		strings.Repeat("b", 12),
		"x\n\n\n" + strings.Repeat("y", 8),
	}
	for _, in := range inputs {
		for _, chunk := range SplitMessage(in, 5) {
			assert.NotEmpty(t, chunk, "input %q", in)
			assert.LessOrEqual(t, len(chunk), 5)
		}
	}
}
