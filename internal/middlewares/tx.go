package middlewares

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/skillswap/internal/logger"
)

// TxMiddleware runs the handler inside a database transaction. The response
// is held back until the transaction is committed; a status of 400 or above
// or a panic rolls it back. Functions registered with AfterCommit run only
// after a successful commit.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := db.BeginTxx(r.Context(), nil)
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error", "")
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					tx.Rollback()
					panic(rec)
				}
			}()

			cookies := append([]string(nil), w.Header().Values("Set-Cookie")...)
			hooks := &afterCommitHooks{}
			bw := &bufferedWriter{header: w.Header(), statusCode: http.StatusOK}

			ctx := setTxToContext(r.Context(), tx)
			ctx = context.WithValue(ctx, afterCommitKey{}, hooks)
			next.ServeHTTP(bw, r.WithContext(ctx))

			if bw.statusCode >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.Log.Errorw("failed to rollback transaction", "error", err)
				}
				bw.flush(w)
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
				// Cookies issued by the handler refer to rolled-back state.
				w.Header().Del("Set-Cookie")
				for _, c := range cookies {
					w.Header().Add("Set-Cookie", c)
				}
				writeError(w, http.StatusInternalServerError, "Internal server error", "")
				return
			}
			bw.flush(w)

			for _, fn := range hooks.fns {
				fn()
			}
		})
	}
}

// bufferedWriter holds status and body until flush. Headers go straight to
// the underlying writer's map, which is not sent before WriteHeader.
type bufferedWriter struct {
	header     http.Header
	statusCode int
	buf        bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.statusCode = code
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	return bw.buf.Write(b)
}

func (bw *bufferedWriter) flush(w http.ResponseWriter) {
	w.WriteHeader(bw.statusCode)
	if bw.buf.Len() > 0 {
		w.Write(bw.buf.Bytes())
	}
}

type txKey struct{}

type afterCommitKey struct{}

type afterCommitHooks struct {
	fns []func()
}

// AfterCommit defers fn until the request transaction in ctx commits; fn is
// dropped on rollback. Without a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(afterCommitKey{}).(*afterCommitHooks); ok {
		hooks.fns = append(hooks.fns, fn)
		return
	}
	fn()
}

func setTxToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTxFromContext retrieves the transaction from the context. Returns nil if not present.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx
}
