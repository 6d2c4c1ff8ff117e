package main

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// POST /me/photo  (multipart form, field name: "file")
// Or remove the stored photo if method is DELETE
func myPhotoHandler(app *App) http.HandlerFunc {
	return app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		sess := app.session(r)

		if r.Method == http.MethodDelete {
			if err := removePhoto(app, sess); err != nil {
				http.Error(w, "remove_failed", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method_not_allowed", http.StatusMethodNotAllowed)
			return
		}

		// Limit to ~3MB
		r.Body = http.MaxBytesReader(w, r.Body, 3<<20)
		if err := r.ParseMultipartForm(4 << 20); err != nil {
			http.Error(w, "file_too_large_or_missing", http.StatusRequestEntityTooLarge)
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing_file", http.StatusBadRequest)
			return
		}
		defer f.Close()

		// Sniff MIME from the first bytes
		head := make([]byte, 512)
		n, _ := f.Read(head)
		ctype := http.DetectContentType(head[:n])
		if ctype != "image/jpeg" {
			http.Error(w, "only_jpeg_allowed", http.StatusBadRequest)
			return
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			http.Error(w, "seek_failed", http.StatusInternalServerError)
			return
		}

		// Make sure the directory exists
		if err := os.MkdirAll(app.PhotoDir, 0o755); err != nil {
			http.Error(w, "mkdir_failed", http.StatusInternalServerError)
			return
		}

		// One photo per visitor: visitorId.jpg
		dst := filepath.Join(app.PhotoDir, sess.VisitorID+".jpg")
		tmp := dst + ".tmp"

		out, err := os.Create(tmp)
		if err != nil {
			http.Error(w, "save_failed", http.StatusInternalServerError)
			return
		}
		if _, err := io.Copy(out, f); err != nil {
			out.Close()
			http.Error(w, "save_failed", http.StatusInternalServerError)
			return
		}
		out.Close()
		if err := os.Rename(tmp, dst); err != nil {
			http.Error(w, "save_failed", http.StatusInternalServerError)
			return
		}

		photoURL := "/photos/" + sess.VisitorID
		if !sess.Store.SetUserPhoto(photoURL) {
			// The visitor hasn't filled in their profile yet.
			// Remove the file
			_ = os.Remove(dst)
			http.Error(w, "profile_not_initialized", http.StatusConflict)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"ok":       true,
			"photoUrl": photoURL,
		})
	})
}

// GET /photos/{visitorId}
func getPhotoHandler(app *App) http.HandlerFunc {
	return app.authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method_not_allowed", http.StatusMethodNotAllowed)
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		// /photos/{visitorId}
		if len(parts) != 2 || parts[0] != "photos" {
			http.NotFound(w, r)
			return
		}

		// Only using basename to avoid injection of ../ etc.
		path := filepath.Join(app.PhotoDir, filepath.Base(parts[1])+".jpg")
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		// Light cache - busted in frontend ?ts=timestamp
		w.Header().Set("Cache-Control", "private, max-age=3600")
		http.ServeFile(w, r, path)
	})
}

func removePhoto(app *App, sess *Session) error {
	path := filepath.Join(app.PhotoDir, sess.VisitorID+".jpg")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	sess.Store.SetUserPhoto("")
	return nil
}
