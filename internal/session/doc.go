package session

// Package session holds the per-session interaction state of the dashboard:
// the row editor, the in-flight call state, the last rendered results and
// inline errors, and the expiring wake banner. A Controller is the explicit
// state object the view layer renders from; it never touches widgets.
