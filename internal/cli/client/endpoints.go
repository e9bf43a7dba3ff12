package client

const (
	// Authentication endpoints
	endpointSendCode    = "/send-code"
	endpointLogin       = "/login"
	endpointVerifyToken = "/verify-token"

	// Activity endpoints
	endpointActivities   = "/activities"    // GET, POST
	endpointActivityByID = "/activities/%s" // GET, DELETE
)
