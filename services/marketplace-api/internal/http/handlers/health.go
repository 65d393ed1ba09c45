package handlers

import (
	"net/http"

	"toolplanet/shared/pkg/httputil"
)

func Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Tool Planet Server Running"))
}

func Health(w http.ResponseWriter, _ *http.Request) {
	httputil.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
