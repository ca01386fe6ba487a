package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// UserIDFromContext returns the authenticated user ID. The second return is
// false for anonymous requests.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	if sess := SessionFromContext(ctx); sess != nil {
		return sess.UserID, true
	}
	return 0, false
}
