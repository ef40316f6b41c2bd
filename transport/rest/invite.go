package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

const qrSize = 256

type InviteHandler interface {
	QRHandler(w http.ResponseWriter, r *http.Request)
}

type inviteHandler struct {
	logger    *slog.Logger
	rooms     roomFinder
	publicURL string
}

func NewInviteHandler(logger *slog.Logger, rooms roomFinder, publicURL string) InviteHandler {
	return &inviteHandler{
		logger:    logger.With("component", "invite"),
		rooms:     rooms,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// QRHandler - renders a PNG QR code pointing at the join link of a live room.
func (that *inviteHandler) QRHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "QRHandler")

	room, err := that.rooms.Find(mux.Vars(r)["code"])
	if err != nil {
		if errors.Is(err, apperror.ErrRoomNotFound) {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}

		log.Error("failed to find room", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	png, err := qrcode.Encode(that.inviteLink(room.Code), qrcode.Medium, qrSize)
	if err != nil {
		log.Error("failed to encode qr code", "code", room.Code, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(png); err != nil {
		log.Warn("failed to write qr code", "error", err)
	}
}

func (that *inviteHandler) inviteLink(code string) string {
	return that.publicURL + "/?room=" + url.QueryEscape(code)
}
