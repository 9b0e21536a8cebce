package model

// Package model defines domain data structures used across the app: catalog
// entries, selection rows, the request/response shapes of the two prediction
// services, and the session state enum. Structures are plain values so the UI
// can render them directly and the controller can copy them freely.
