// Package outcome defines the ActionResult value returned to the presentation
// layer after every user-initiated action, together with the error taxonomy
// used to classify failures without inspecting free-text messages.
package outcome
