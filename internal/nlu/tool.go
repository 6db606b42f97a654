package nlu

// Tool is one action the classifier may select.
type Tool int

const (
	ToolOpenWebsite Tool = iota
	ToolPlayOnYouTube
	ToolSearchGoogle
	ToolSearchOnYouTube
	ToolStopAssistant
	ToolConversation

	toolCount
)

type toolSpec struct {
	name string
	desc string
}

var toolSpecs = [toolCount]toolSpec{
	ToolOpenWebsite:     {"open_website", `Opens a website. The argument is the domain (e.g., "google.com").`},
	ToolPlayOnYouTube:   {"play_on_youtube", `Plays a song/video on YouTube. The argument is the song or video name (e.g., "Shape of You").`},
	ToolSearchGoogle:    {"search_google", "Searches Google. The argument is the search query."},
	ToolSearchOnYouTube: {"search_on_youtube", "Searches on YouTube without autoplay. The argument is the search query."},
	ToolStopAssistant:   {"stop_assistant", "Stops the assistant when the user wants to exit, stop or sleep. Argument should be empty."},
	ToolConversation:    {"conversation", "For general questions or chat that fit no other tool. Return the full text response as argument."},
}

var toolsByName = func() map[string]Tool {
	m := make(map[string]Tool, toolCount)
	for t := Tool(0); t < toolCount; t++ {
		m[toolSpecs[t].name] = t
	}
	return m
}()

func (t Tool) String() string {
	if t < 0 || t >= toolCount {
		return "unknown"
	}
	return toolSpecs[t].name
}

func (t Tool) Description() string {
	if t < 0 || t >= toolCount {
		return ""
	}
	return toolSpecs[t].desc
}

// Tools lists every tool in declaration order.
func Tools() []Tool {
	out := make([]Tool, 0, toolCount)
	for t := Tool(0); t < toolCount; t++ {
		out = append(out, t)
	}
	return out
}

func ParseTool(name string) (Tool, bool) {
	t, ok := toolsByName[name]
	return t, ok
}
