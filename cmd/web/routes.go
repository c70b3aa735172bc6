package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AdamBeresnev/mariolympics/internal/config"
	"github.com/AdamBeresnev/mariolympics/internal/httputil"
	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/AdamBeresnev/mariolympics/internal/service"
	"github.com/AdamBeresnev/mariolympics/internal/store"
	"github.com/AdamBeresnev/mariolympics/views"
	"github.com/a-h/templ"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const flashKey = "flash"

type application struct {
	sessions    *scs.SessionManager
	roster      *service.RosterService
	tournaments *service.TournamentService
	matches     *service.MatchService
}

func newApplication(database *sqlx.DB, sessions *scs.SessionManager, cfg config.Config) (*application, error) {
	games, err := cfg.GameList()
	if err != nil {
		return nil, err
	}

	playerStore := store.NewPlayerStore(database)
	tournamentStore := store.NewTournamentStore(database, playerStore)

	return &application{
		sessions: sessions,
		roster:   service.NewRosterService(database, playerStore),
		tournaments: service.NewTournamentService(database, tournamentStore, playerStore, service.Defaults{
			Games:            games,
			BronzeMedalMatch: cfg.BronzeMedalMatch,
		}),
		matches: service.NewMatchService(database, tournamentStore, service.NewBracketLocks()),
	}, nil
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(app.sessions.LoadAndSave)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		tournaments, err := app.tournaments.ListTournaments(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to get tournaments", err)
			return
		}
		players, err := app.roster.ListPlayers(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to get players", err)
			return
		}
		defaults := app.tournaments.Defaults()
		form := views.TournamentForm{Games: defaults.Games, BronzeMedalMatch: defaults.BronzeMedalMatch}
		app.render(w, r, views.Index(tournaments, players, form, app.sessions.PopString(r.Context(), flashKey)))
	})

	r.Route("/tournaments", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}

			in := service.TournamentInput{}
			if raw := r.Form.Get("bronze_medal_match"); raw != "" {
				bronze, err := strconv.ParseBool(raw)
				if err != nil {
					httputil.BadRequest(w, "Invalid bronze medal match flag", err)
					return
				}
				in.BronzeMedalMatch = &bronze
			}

			if date := r.Form.Get("date"); date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					httputil.BadRequest(w, "Invalid date", err)
					return
				}
				in.Date = parsed
			}
			for _, raw := range r.Form["player_id"] {
				id, err := uuid.Parse(raw)
				if err != nil {
					httputil.BadRequest(w, "Invalid player ID", err)
					return
				}
				in.PlayerIDs = append(in.PlayerIDs, id)
			}
			for _, name := range r.Form["game"] {
				game, err := roster.ParseGame(name)
				if err != nil {
					httputil.BadRequest(w, "Invalid game", err)
					return
				}
				in.Games = append(in.Games, game)
			}

			t, err := app.tournaments.CreateTournament(r.Context(), in)
			if err != nil {
				app.fail(w, r, "/", "Failed to create tournament", err)
				return
			}
			redirect(w, r, fmt.Sprintf("/tournaments/%s", t.ID))
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlID(w, r, "id")
				if !ok {
					return
				}
				t, err := app.tournaments.GetTournament(r.Context(), id)
				if err != nil {
					httputil.Error(w, "Tournament not found", err)
					return
				}
				app.render(w, r, views.TournamentView(t, app.sessions.PopString(r.Context(), flashKey)))
			})

			r.Post("/delete", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlID(w, r, "id")
				if !ok {
					return
				}
				if err := app.tournaments.DeleteTournament(r.Context(), id); err != nil {
					httputil.Error(w, "Tournament not found", err)
					return
				}
				app.sessions.Put(r.Context(), flashKey, "Tournament deleted")
				redirect(w, r, "/")
			})

			r.Get("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
				id, ok := urlID(w, r, "id")
				if !ok {
					return
				}
				standings, err := app.tournaments.GetLeaderboard(r.Context(), id)
				if err != nil {
					httputil.Error(w, "Tournament not found", err)
					return
				}

				type entry struct {
					Rank      int       `json:"rank"`
					PlayerID  uuid.UUID `json:"player_id"`
					Name      string    `json:"name"`
					Character string    `json:"character"`
					Score     int       `json:"score"`
				}
				out := make([]entry, 0, len(standings))
				for i, s := range standings {
					out = append(out, entry{
						Rank:      i + 1,
						PlayerID:  s.Player.ID,
						Name:      s.Player.FullName(),
						Character: s.Player.CharacterName,
						Score:     s.Score,
					})
				}
				httputil.JSON(w, http.StatusOK, out)
			})
		})
	})

	r.Route("/brackets/{id}", func(r chi.Router) {
		r.Post("/matches/{matchID}/winner", func(w http.ResponseWriter, r *http.Request) {
			bracketID, ok := urlID(w, r, "id")
			if !ok {
				return
			}
			matchID, ok := urlID(w, r, "matchID")
			if !ok {
				return
			}
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}
			winnerID, err := uuid.Parse(r.Form.Get("winner_id"))
			if err != nil {
				httputil.BadRequest(w, "Invalid winner ID", err)
				return
			}

			tournamentID, err := app.matches.SetMatchWinner(r.Context(), bracketID, matchID, winnerID)
			if err != nil {
				app.fail(w, r, backTo(r), "Failed to set winner", err)
				return
			}
			redirect(w, r, fmt.Sprintf("/tournaments/%s#bracket-%s", tournamentID, bracketID))
		})

		r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
			bracketID, ok := urlID(w, r, "id")
			if !ok {
				return
			}
			tournamentID, err := app.matches.ResetBracket(r.Context(), bracketID)
			if err != nil {
				httputil.Error(w, "Bracket not found", err)
				return
			}
			app.sessions.Put(r.Context(), flashKey, "Bracket reset")
			redirect(w, r, fmt.Sprintf("/tournaments/%s#bracket-%s", tournamentID, bracketID))
		})
	})

	r.Route("/players", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			players, err := app.roster.ListPlayers(r.Context())
			if err != nil {
				httputil.InternalServerError(w, "Failed to get players", err)
				return
			}
			app.render(w, r, views.PlayersPage(players, app.sessions.PopString(r.Context(), flashKey)))
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}
			p, err := app.roster.CreatePlayer(r.Context(), service.PlayerInput{
				FirstName: r.Form.Get("first_name"),
				LastName:  r.Form.Get("last_name"),
				Email:     r.Form.Get("email"),
				Phone:     r.Form.Get("phone"),
				Character: r.Form.Get("character"),
			})
			if err != nil {
				app.fail(w, r, "/players", "Failed to create player", err)
				return
			}
			app.sessions.Put(r.Context(), flashKey, fmt.Sprintf("Added %s", p.FullName()))
			redirect(w, r, "/players")
		})

		r.Post("/import", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				httputil.BadRequest(w, "Invalid form data", err)
				return
			}
			players, err := app.roster.ImportPlayers(r.Context(), r.Form.Get("roster"))
			if err != nil {
				app.fail(w, r, "/players", "Failed to import players", err)
				return
			}
			app.sessions.Put(r.Context(), flashKey, fmt.Sprintf("Imported %d players", len(players)))
			redirect(w, r, "/players")
		})

		r.Post("/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
			id, ok := urlID(w, r, "id")
			if !ok {
				return
			}
			if err := app.roster.DeletePlayer(r.Context(), id); err != nil {
				httputil.Error(w, "Player not found", err)
				return
			}
			redirect(w, r, "/players")
		})
	})

	return r
}

func (app *application) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	if err := views.Render(w, r, c); err != nil {
		httputil.InternalServerError(w, "Failed to render page", err)
	}
}

// fail reports domain failures as a flash message on the page at back and
// anything else as a plain error response.
func (app *application) fail(w http.ResponseWriter, r *http.Request, back, msg string, err error) {
	switch httputil.StatusOf(err) {
	case http.StatusBadRequest, http.StatusConflict:
		slog.WarnContext(r.Context(), msg, "error", err)
		app.sessions.Put(r.Context(), flashKey, err.Error())
		redirect(w, r, back)
	default:
		httputil.Error(w, msg, err)
	}
}

// redirect sends htmx requests an HX-Redirect header and everyone else a 303.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// backTo is the local page the request came from, or the index.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	return ref.Path
}

func urlID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.BadRequest(w, "Invalid ID", err)
		return uuid.Nil, false
	}
	return id, true
}
