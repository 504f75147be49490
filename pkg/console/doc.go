// Package console hosts the client-side core of the admin console: durable
// and per-run storage, the session manager, the authenticated transport,
// route guard evaluation, the placement canvas, and the cart. The packages
// under it are UI-framework agnostic; a shell embeds them and renders from
// their state.
package console
