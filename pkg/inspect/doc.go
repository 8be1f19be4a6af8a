// Package inspect serves a live HTTP view of an overlay provider.
//
// Routes:
//
//	GET  /snapshot               registry as JSON
//	GET  /slots                  active slot and slot stack
//	GET  /render                 provider output as HTML
//	POST /overlays?template=name open a registered template (optional &id=)
//	POST /overlays/{id}/close    close one overlay
//	POST /overlays/{id}/unmount  remove one overlay
//	POST /close-all              close every overlay
//	POST /unmount-all            remove every overlay
//	GET  /ws                     snapshot stream, one message per change
//	GET  /metrics                Prometheus metrics, when a gatherer is set
//	POST /archive                store the snapshot in S3, when an Archive is set
//
// Commands go through the system's command API, so they reach the
// provider exactly like commands issued by application code.
package inspect
