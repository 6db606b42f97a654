package assistant

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"friday/internal/nlu"
	"friday/internal/web"
)

const (
	msgAck            = "Yes sir!"
	msgFarewell       = "Goodbye Sir."
	msgNotSure        = "I'm not sure how to do that. Could you try rephrasing?"
	msgBadFormat      = "I couldn't understand the command properly. Please try again."
	msgSomethingWrong = "Sorry, something went wrong."

	msgNeedWebsite      = "You need to specify a website to open."
	msgNeedPlay         = "You need to tell me what to play."
	msgNeedSearch       = "You need to tell me what to search for."
	msgNeedYouTubeQuery = "You need to tell me what to search for on YouTube."

	playTimeout = 15 * time.Second
)

// Speaker queues a line for narration without waiting for playback.
type Speaker interface {
	Say(text string)
}

type Opener interface {
	Open(u string) error
}

// Player finds media for a query and starts playing it.
type Player interface {
	Play(ctx context.Context, query string) error
}

// Actions holds the side-effecting tool handlers. Each handler validates its
// own argument and reports problems by speech.
type Actions struct {
	speaker Speaker
	opener  Opener
	player  Player
}

func NewActions(speaker Speaker, opener Opener, player Player) *Actions {
	return &Actions{speaker: speaker, opener: opener, player: player}
}

// Run dispatches one tool. Only ToolStopAssistant yields SignalSleep.
func (a *Actions) Run(ctx context.Context, tool nlu.Tool, arg string) Signal {
	switch tool {
	case nlu.ToolOpenWebsite:
		a.OpenWebsite(arg)
	case nlu.ToolPlayOnYouTube:
		a.PlayOnYouTube(ctx, arg)
	case nlu.ToolSearchGoogle:
		a.SearchGoogle(arg)
	case nlu.ToolSearchOnYouTube:
		a.SearchOnYouTube(arg)
	case nlu.ToolStopAssistant:
		return a.Stop()
	case nlu.ToolConversation:
		a.speaker.Say(arg)
	default:
		log.Warn("No handler for tool", "tool", tool)
		a.speaker.Say(msgNotSure)
	}
	return SignalNone
}

func (a *Actions) OpenWebsite(u string) {
	if u == "" {
		a.speaker.Say(msgNeedWebsite)
		return
	}

	u = web.NormalizeURL(u)
	if !a.open(u) {
		return
	}
	a.speaker.Say(fmt.Sprintf("Opening %s", u))
}

func (a *Actions) PlayOnYouTube(ctx context.Context, query string) {
	if query == "" {
		a.speaker.Say(msgNeedPlay)
		return
	}

	a.speaker.Say(fmt.Sprintf("Playing %s on YouTube.", query))

	ctx, cancel := context.WithTimeout(ctx, playTimeout)
	defer cancel()

	if err := a.player.Play(ctx, query); err != nil {
		log.Error("Failed to play", "query", query, "err", err)
		a.speaker.Say(msgSomethingWrong)
	}
}

func (a *Actions) SearchGoogle(query string) {
	if query == "" {
		a.speaker.Say(msgNeedSearch)
		return
	}

	a.speaker.Say(fmt.Sprintf("Searching Google for %s", query))
	a.open(web.GoogleSearchURL(query))
}

// SearchOnYouTube shows the results page, it never autoplays.
func (a *Actions) SearchOnYouTube(query string) {
	if query == "" {
		a.speaker.Say(msgNeedYouTubeQuery)
		return
	}

	a.speaker.Say(fmt.Sprintf("Searching YouTube for %s", query))
	a.open(web.YouTubeResultsURL(query))
}

func (a *Actions) Stop() Signal {
	a.speaker.Say(msgFarewell)
	return SignalSleep
}

func (a *Actions) open(u string) bool {
	if err := a.opener.Open(u); err != nil {
		log.Error("Failed to open browser", "url", u, "err", err)
		a.speaker.Say(msgSomethingWrong)
		return false
	}
	return true
}
