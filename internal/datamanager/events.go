// internal/datamanager/events.go
package datamanager

// BridgedEvents is the explicit bi-directional mapping between bus event
// names and the editor's native event names. Only names listed here cross
// the bridge.
func BridgedEvents() map[string]string {
	return map[string]string{
		"sf:submitAnnotation": "submitAnnotation",
		"sf:updateAnnotation": "updateAnnotation",
		"sf:deleteAnnotation": "deleteAnnotation",
		"sf:skipTask":         "skipTask",
		"sf:unskipTask":       "unskipTask",
		"sf:annotationSet":    "annotationSet",
		"sf:draftSaved":       "draftSaved",
		"sf:queueEmpty":       "queueEmpty",
		"sf:userLabelsLoaded": "userLabelsLoaded",
		"sf:entityCreate":     "entityCreate",
		"sf:entityDelete":     "entityDelete",
		"sf:groundTruth":      "groundTruth",
	}
}
