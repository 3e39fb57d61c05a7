package api

// defaultEndpoints is the named operation table the integration layer calls
// through. Deployments can override any entry via WithEndpoints.
func defaultEndpoints() map[string]Endpoint {
	return map[string]Endpoint{
		"whoami":   {Method: "GET", Path: "/api/whoami/"},
		"project":  {Method: "GET", Path: "/api/projects/:project/"},
		"tasks":    {Method: "GET", Path: "/api/projects/:project/tasks/"},
		"task":     {Method: "GET", Path: "/api/tasks/:taskID/"},
		"nextTask": {Method: "GET", Path: "/api/projects/:project/next/"},

		"submitAnnotation": {Method: "POST", Path: "/api/tasks/:taskID/annotations/"},
		"updateAnnotation": {Method: "PATCH", Path: "/api/annotations/:annotationID/"},
		"deleteAnnotation": {Method: "DELETE", Path: "/api/annotations/:annotationID/"},

		"createDraftForTask":       {Method: "POST", Path: "/api/tasks/:taskID/drafts/"},
		"createDraftForAnnotation": {Method: "POST", Path: "/api/tasks/:taskID/annotations/:annotationID/drafts/"},
		"updateDraft":              {Method: "PATCH", Path: "/api/drafts/:draftID/"},
		"deleteDraft":              {Method: "DELETE", Path: "/api/drafts/:draftID/"},
		"convertToDraft":           {Method: "POST", Path: "/api/annotations/:annotationID/convert-to-draft/"},

		"userLabelsForProject": {Method: "GET", Path: "/api/label-links/"},
		"saveUserLabels":       {Method: "POST", Path: "/api/labels/"},

		"createComment": {Method: "POST", Path: "/api/comments/"},
		"updateComment": {Method: "PATCH", Path: "/api/comments/:commentID/"},
		"deleteComment": {Method: "DELETE", Path: "/api/comments/:commentID/"},
		"listComments":  {Method: "GET", Path: "/api/comments/"},

		"presignUrlForProject": {Method: "GET", Path: "/api/projects/:project/presign/"},
	}
}
