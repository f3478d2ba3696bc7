package pages

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/web/templates/layout"
)

// StatusCounts holds the counters shown on the status page
type StatusCounts struct {
	Connections    int
	Players        int
	OpenSessions   int
	ActiveSessions int
	GamesFinished  int
}

// StatusData is the data rendered by Status
type StatusData struct {
	layout.PageData
	WebSocketPath string
	Stats         StatusCounts
	OpenGames     []model.OpenGameSummary
	Results       []*model.GameResult
	ResultsError  bool
	RenderedAt    time.Time
}

// Status is the server status page
func Status(data StatusData) templ.Component {
	return layout.Page(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, section := range []templ.Component{
			header(data.WebSocketPath),
			stats(data.Stats),
			openGames(data.OpenGames),
			recentResults(data.Results, data.ResultsError),
			footer(data.RenderedAt),
		} {
			if err := section.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	}))
}

// html writes markup and keeps the first error
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) cell(class, value string) {
	h.raw(`<td class="` + class + `">`)
	h.text(value)
	h.raw(`</td>`)
}

func component(f func(h *html)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &html{w: w}
		f(h)
		return h.err
	})
}

func header(wsPath string) templ.Component {
	return component(func(h *html) {
		h.raw(`<header><h1>minesboomer</h1><p id="websocket-endpoint">Connect a client to <code>`)
		h.text(wsPath)
		h.raw(`</code></p></header>`)
	})
}

func stats(c StatusCounts) templ.Component {
	return component(func(h *html) {
		h.raw(`<section id="stats"><h2>Server</h2><dl>`)
		for _, s := range []struct {
			label, key string
			value      int
		}{
			{"Connections", "connections", c.Connections},
			{"Players", "players", c.Players},
			{"Open games", "open", c.OpenSessions},
			{"Games in progress", "active", c.ActiveSessions},
			{"Games finished", "finished", c.GamesFinished},
		} {
			h.raw(`<dt>` + s.label + `</dt><dd data-stat="` + s.key + `">` + strconv.Itoa(s.value) + `</dd>`)
		}
		h.raw(`</dl></section>`)
	})
}

func openGames(games []model.OpenGameSummary) templ.Component {
	return component(func(h *html) {
		h.raw(`<section id="open-games"><h2>Open games</h2>`)
		if len(games) == 0 {
			h.raw(`<p class="empty">No games are waiting for an opponent.</p></section>`)
			return
		}
		h.raw(`<table><thead><tr><th>Name</th><th>Host</th><th>Difficulty</th><th>Waiting since</th></tr></thead><tbody>`)
		for _, g := range games {
			h.raw(`<tr data-session-id="`)
			h.text(string(g.SessionID))
			h.raw(`">`)
			h.cell("name", g.Name)
			h.cell("host", g.HostName)
			h.cell("difficulty", string(g.Difficulty))
			h.cell("created", g.CreatedAt.Format("15:04:05"))
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></section>`)
	})
}

func recentResults(results []*model.GameResult, failed bool) templ.Component {
	return component(func(h *html) {
		h.raw(`<section id="recent-results"><h2>Recent results</h2>`)
		switch {
		case failed:
			h.raw(`<p class="error">Results are unavailable right now.</p>`)
		case len(results) == 0:
			h.raw(`<p class="empty">No games have finished yet.</p>`)
		default:
			h.raw(`<table><thead><tr><th>Game</th><th>Winner</th><th>Loser</th><th>Difficulty</th><th>Moves</th><th>Finished</th></tr></thead><tbody>`)
			for _, r := range results {
				h.raw(`<tr data-result-id="`)
				h.text(r.ID)
				h.raw(`">`)
				h.cell("name", r.Name)
				h.cell("winner", r.WinnerName)
				h.cell("loser", r.LoserName)
				h.cell("difficulty", string(r.Difficulty))
				h.cell("moves", strconv.Itoa(r.Moves))
				h.cell("finished", r.FinishedAt.Format("2006-01-02 15:04"))
				h.raw(`</tr>`)
			}
			h.raw(`</tbody></table>`)
		}
		h.raw(`</section>`)
	})
}

func footer(at time.Time) templ.Component {
	return component(func(h *html) {
		h.raw(`<footer id="rendered-at">Rendered `)
		h.text(at.Format("2006-01-02 15:04:05 MST"))
		h.raw(`</footer>`)
	})
}
