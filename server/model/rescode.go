package model

type ResponCode int

const (
	UNKNOW_ERROR  = -999
	PARAM_ERROR   = -4
	UNAUTHORIZED  = -3
	NETWORK_ERROR = -2
	ERROR         = -1
	OK            = 0
)

// NormalRes is the body of every non-query response of the mock backend.
type NormalRes struct {
	Code    ResponCode
	Message string
	Data    interface{} `json:",omitempty"`
}
