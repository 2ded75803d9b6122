// Package domain defines the core entities of the memorization engine:
// the deck of Major System cards, per-card scheduling state, and the
// drill types assembled into practice sessions.
package domain
