package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"friday/internal/nlu"
)

func newActions() (*Actions, *recordingSpeaker, *recordingOpener, *recordingPlayer) {
	s, o, p := &recordingSpeaker{}, &recordingOpener{}, &recordingPlayer{}
	return NewActions(s, o, p), s, o, p
}

func TestActions_EveryToolHasAHandler(t *testing.T) {
	for _, tool := range nlu.Tools() {
		t.Run(tool.String(), func(t *testing.T) {
			a, s, _, _ := newActions()

			a.Run(context.Background(), tool, "something")

			assert.NotContains(t, s.lines, msgNotSure)
		})
	}
}

func TestActions_OnlyStopSleeps(t *testing.T) {
	for _, tool := range nlu.Tools() {
		a, _, _, _ := newActions()

		sig := a.Run(context.Background(), tool, "x")
		if tool == nlu.ToolStopAssistant {
			assert.Equal(t, SignalSleep, sig)
		} else {
			assert.Equal(t, SignalNone, sig, tool.String())
		}
	}
}

func TestActions_UnknownToolFallsBack(t *testing.T) {
	a, s, o, p := newActions()

	assert.Equal(t, SignalNone, a.Run(context.Background(), nlu.Tool(99), "x"))
	assert.Equal(t, []string{msgNotSure}, s.lines)
	assert.Empty(t, o.opened)
	assert.Empty(t, p.queries)
}

func TestActions_EmptyArgumentGuards(t *testing.T) {
	tests := []struct {
		tool nlu.Tool
		want string
	}{
		{nlu.ToolOpenWebsite, msgNeedWebsite},
		{nlu.ToolPlayOnYouTube, msgNeedPlay},
		{nlu.ToolSearchGoogle, msgNeedSearch},
		{nlu.ToolSearchOnYouTube, msgNeedYouTubeQuery},
	}

	for _, tt := range tests {
		t.Run(tt.tool.String(), func(t *testing.T) {
			a, s, o, p := newActions()

			a.Run(context.Background(), tt.tool, "")

			assert.Equal(t, []string{tt.want}, s.lines)
			assert.Empty(t, o.opened)
			assert.Empty(t, p.queries)
		})
	}
}

func TestActions_OpenWebsite(t *testing.T) {
	a, s, o, _ := newActions()

	a.OpenWebsite("http://example.org")
	a.OpenWebsite("news.ycombinator.com")

	assert.Equal(t, []string{"http://example.org", "https://news.ycombinator.com"}, o.opened)
	assert.Equal(t, []string{"Opening http://example.org", "Opening https://news.ycombinator.com"}, s.lines)
}

func TestActions_SearchOnYouTubeDoesNotAutoplay(t *testing.T) {
	a, _, o, p := newActions()

	a.SearchOnYouTube("rick roll")

	assert.Equal(t, []string{"https://www.youtube.com/results?search_query=rick+roll"}, o.opened)
	assert.Empty(t, p.queries)
}

func TestActions_EffectFailuresAreSpoken(t *testing.T) {
	a, s, o, p := newActions()
	o.err = errors.New("no display")
	p.err = errors.New("youtube unreachable")

	a.OpenWebsite("github.com")
	a.PlayOnYouTube(context.Background(), "lofi")

	assert.Equal(t, []string{
		msgSomethingWrong,
		"Playing lofi on YouTube.",
		msgSomethingWrong,
	}, s.lines)
}

func TestActions_Stop(t *testing.T) {
	a, s, _, _ := newActions()

	assert.Equal(t, SignalSleep, a.Stop())
	assert.Equal(t, []string{msgFarewell}, s.lines)
}
