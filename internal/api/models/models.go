package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"Warp core is rendering" doc:"Status message"`
	Ticks   uint64 `json:"ticks" example:"1024" doc:"Pattern ticks rendered since start"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"dev" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit SHA"`
	BuildDate string `json:"build_date" example:"2024-12-15 14:30" doc:"Build timestamp"`
	BuildID   string `json:"build_id" example:"a1b2c3d4" doc:"Unique build identifier"`
	GoVersion string `json:"go_version" example:"go1.21.0" doc:"Go compiler version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Compiler used"`
	Platform  string `json:"platform" example:"linux/amd64" doc:"Platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Status models
type StatusData struct {
	WarpFactor  int    `json:"warp_factor" example:"2" doc:"Warp factor (1-9)"`
	Hue         int    `json:"hue" example:"160" doc:"Base hue (0-255)"`
	Saturation  int    `json:"saturation" example:"255" doc:"Saturation (0-255)"`
	Brightness  int    `json:"brightness" example:"160" doc:"Global brightness (0-255)"`
	Pattern     int    `json:"pattern" example:"1" doc:"Active pattern id (1-5)"`
	PatternName string `json:"pattern_name" example:"standard" doc:"Active pattern name"`
	Rate        int    `json:"rate" example:"4" doc:"Ramp rate derived from the warp factor"`
	Thing       string `json:"thing,omitempty" example:"WarpCore_enterprise" doc:"Device name on the message link"`
}

type StatusResponse struct {
	Body StatusData
}

// Parameter update models. Omitted fields are left unchanged; values out of
// range are clamped.
type ParametersData struct {
	WarpFactor *int `json:"warp_factor,omitempty" example:"5" doc:"Warp factor (1-9)"`
	Hue        *int `json:"hue,omitempty" example:"96" doc:"Base hue (0-255)"`
	Saturation *int `json:"saturation,omitempty" example:"255" doc:"Saturation (0-255)"`
	Brightness *int `json:"brightness,omitempty" example:"200" doc:"Global brightness (0-255)"`
	Pattern    *int `json:"pattern,omitempty" example:"2" doc:"Pattern id (1-5)"`
}

type ParametersRequest struct {
	Body ParametersData
}

// Pattern models
type PatternInfo struct {
	ID    int    `json:"id" example:"2" doc:"Pattern id"`
	Name  string `json:"name" example:"core-breach" doc:"Pattern name"`
	Label string `json:"label" example:"Core Breach" doc:"Display name"`
}

type PatternListData struct {
	Patterns []PatternInfo `json:"patterns" doc:"Selectable patterns"`
	Active   int           `json:"active" example:"1" doc:"Active pattern id"`
}

type PatternListResponse struct {
	Body PatternListData
}

// Legacy settings endpoint reply
type SettingsResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
