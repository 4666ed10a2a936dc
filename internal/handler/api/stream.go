package api

import (
	"net/http"
	"time"

	xlogger "DivScout/pkg/logger"
	"DivScout/pkg/util"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API serves first-party clients only; origin enforcement happens
	// at the CORS layer in front.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const streamWriteTimeout = 5 * time.Second

// StreamQuotes upgrades to a websocket and pushes refreshed dividend records
// for the subscribed symbols until the client disconnects.
func (h *Handler) StreamQuotes(c echo.Context) error {
	symbols := util.SplitSymbols(c.QueryParam("symbols"))
	if len(symbols) == 0 {
		return echo.NewHTTPError(400, "no valid symbols provided")
	}
	if len(symbols) > h.streamMaxSymbol {
		symbols = symbols[:h.streamMaxSymbol]
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx := c.Request().Context()

	// Drain client frames so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()

	push := func() error {
		records := h.fetcher.FetchDividendData(ctx, symbols)
		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		return conn.WriteJSON(map[string]interface{}{
			"data": records,
			"ts":   time.Now().UTC(),
		})
	}

	if err := push(); err != nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := push(); err != nil {
				h.logger.Debug("stream client gone", xlogger.Error(err))
				return nil
			}
		}
	}
}
