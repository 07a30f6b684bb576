package game

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"goban/internal/bootstrap"
	"goban/internal/domain/game"
	"goban/internal/engine"
	"goban/internal/errors"
	"goban/internal/httpresponse"
	gameuc "goban/internal/usecase/game"
	"goban/internal/utils"
)

type GameHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
	hub    *Hub
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, store gameuc.GameStore) *GameHandler {
	defaults := gameuc.Defaults{BoardSize: cfg.DefaultBoardSize, Komi: cfg.DefaultKomi}
	h := &GameHandler{
		cfg:    cfg,
		log:    log,
		gameUC: gameuc.NewGameUseCase(store, log, defaults),
		hub:    NewHub(log),
	}
	h.gameUC.OnMove(func(played game.Game, move game.Move) {
		h.hub.Broadcast(played.ID, game.GameStateResponse{Move: &move, Game: played})
	})
	return h
}

func (g *GameHandler) Routes(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", g.HandleNewGame)
		r.Post("/import", g.HandleImportGame)
		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", g.HandleGetGame)
			r.Post("/moves", g.HandlePlayMove)
			r.Post("/pass", g.HandlePass)
			r.Post("/bot", g.HandleBotMove)
			r.Get("/legal", g.HandleLegalMoves)
			r.Get("/score", g.HandleScore)
			r.Get("/sgf", g.HandleSGF)
			r.Get("/ws", g.HandleWatch)
		})
	})
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	bodyBytes, err := utils.ReadRequestBody(r)
	if err != nil {
		g.log.Error("Failed to read body:", err)
		httpresponse.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req game.CreateGameRequest
	if len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, &req); err != nil {
			g.log.Error("JSON decode error:", err)
			httpresponse.WriteError(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc)
			return
		}
	}

	created, err := g.gameUC.CreateGame(r.Context(), req)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, created)
}

func (g *GameHandler) HandleImportGame(w http.ResponseWriter, r *http.Request) {
	var req game.ImportGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error(err)
		httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	imported, err := g.gameUC.ImportGame(r.Context(), req.SGF)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, imported)
}

func (g *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	found, err := g.gameUC.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, found)
}

func (g *GameHandler) HandlePlayMove(w http.ResponseWriter, r *http.Request) {
	var req game.MoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error(err)
		httpresponse.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "gameID")
	played, move, err := g.gameUC.PlayMove(r.Context(), id, req.Coordinates)
	g.respondMove(w, played, move, err)
}

func (g *GameHandler) HandlePass(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	played, move, err := g.gameUC.Pass(r.Context(), id)
	g.respondMove(w, played, move, err)
}

func (g *GameHandler) HandleBotMove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	played, move, err := g.gameUC.PlayBotMove(r.Context(), id)
	g.respondMove(w, played, move, err)
}

// respondMove answers the mover. Watchers already got the move from the
// OnMove hook.
func (g *GameHandler) respondMove(w http.ResponseWriter, played game.Game, move game.Move, err error) {
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.GameStateResponse{Move: &move, Game: played})
}

func (g *GameHandler) HandleLegalMoves(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	moves, err := g.gameUC.LegalMoves(r.Context(), id)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.LegalMovesResponse{ID: id, Moves: moves})
}

func (g *GameHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	score, err := g.gameUC.GetScore(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, score)
}

func (g *GameHandler) HandleSGF(w http.ResponseWriter, r *http.Request) {
	record, err := g.gameUC.ExportSGF(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-go-sgf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(record))
}

// HandleWatch streams every move of the game to the socket. The socket may
// also submit moves as {"coordinates": "dd"}.
func (g *GameHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "gameID")

	current, err := g.gameUC.GetGame(ctx, id)
	if err != nil {
		g.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("upgrade error:", err)
		return
	}
	watcher := g.hub.Join(id, conn)
	defer g.hub.Leave(id, watcher)

	if err := watcher.Send(game.GameStateResponse{Game: current}); err != nil {
		g.log.Error("write error:", err)
		return
	}

	for {
		var req game.MoveRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.Debug("read error:", err)
			}
			return
		}

		if _, _, err := g.gameUC.PlayMove(ctx, id, req.Coordinates); err != nil {
			_ = watcher.Send(httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		}
	}
}

func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		g.log.Error(err)
		httpresponse.WriteError(w, status, errors.ErrInternal.Error())
		return
	}
	g.log.Debug(err)
	httpresponse.WriteError(w, status, err.Error())
}

func statusFor(err error) int {
	is := func(targets ...error) bool {
		for _, t := range targets {
			if stderrors.Is(err, t) {
				return true
			}
		}
		return false
	}
	switch {
	case is(errors.ErrGameNotFound):
		return http.StatusNotFound
	case is(errors.ErrBadCoordinate, errors.ErrInvalidSGF, engine.ErrInvalidSize):
		return http.StatusBadRequest
	case is(engine.ErrOutOfBounds, engine.ErrOccupied, engine.ErrKoViolation, engine.ErrSuicide,
		engine.ErrNotTerminal, engine.ErrGameOver, errors.ErrGameFinished):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
