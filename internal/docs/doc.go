// Package docs builds the OpenAPI document for the service and serves it
// together with browsable documentation pages.
//
// The document is assembled from three inputs: the resolved application
// version, the ordered tag metadata of a tags.Registry, and the operations
// registered by the API router. Tag order in the document follows the
// registry, which is what renderers use to order their sections.
package docs
