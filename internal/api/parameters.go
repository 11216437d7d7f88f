package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/warpcore/internal/api/models"
	"github.com/smazurov/warpcore/internal/engine"
	"github.com/smazurov/warpcore/internal/params"
	"github.com/smazurov/warpcore/internal/pattern"
)

// settingsOrder is the order the control page's query keys are applied in.
var settingsOrder = []params.Name{
	params.Pattern,
	params.Brightness,
	params.Hue,
	params.Saturation,
	params.WarpFactor,
}

// SettingsInput is the query of the control page's /settings call. Values
// are parsed leniently: a leading integer is used, anything else reads as 0.
type SettingsInput struct {
	Pattern    string `query:"pattern" doc:"Pattern id (1-5)"`
	Brightness string `query:"brightness" doc:"Global brightness (0-255)"`
	Hue        string `query:"hue" doc:"Base hue (0-255)"`
	Saturation string `query:"saturation" doc:"Saturation (0-255)"`
	WarpFactor string `query:"warpFactor" doc:"Warp factor (1-9)"`

	query url.Values
}

// Resolve keeps the raw query so present-but-empty keys still count.
func (i *SettingsInput) Resolve(ctx huma.Context) []error {
	u := ctx.URL()
	i.query = u.Query()
	return nil
}

// Changes returns the parameter writes in application order.
func (i *SettingsInput) Changes() []engine.Change {
	var changes []engine.Change
	for _, name := range settingsOrder {
		if !i.query.Has(string(name)) {
			continue
		}
		changes = append(changes, engine.Change{Name: name, Value: params.ParseInt(i.query.Get(string(name)))})
	}
	return changes
}

func toStatusData(status params.Status, thing string) models.StatusData {
	name := ""
	if p, ok := pattern.Lookup(pattern.ID(status.Pattern)); ok {
		name = p.Name
	}
	return models.StatusData{
		WarpFactor:  status.WarpFactor,
		Hue:         status.Hue,
		Saturation:  status.Saturation,
		Brightness:  status.Brightness,
		Pattern:     status.Pattern,
		PatternName: name,
		Rate:        status.Rate(),
		Thing:       thing,
	}
}

func patternInfos() []models.PatternInfo {
	all := pattern.Patterns()
	infos := make([]models.PatternInfo, 0, len(all))
	for _, p := range all {
		infos = append(infos, models.PatternInfo{ID: int(p.ID), Name: p.Name, Label: p.Label})
	}
	return infos
}

// bodyChanges lists the fields present in a parameter update.
func bodyChanges(d models.ParametersData) []engine.Change {
	fields := []struct {
		name  params.Name
		value *int
	}{
		{params.Pattern, d.Pattern},
		{params.Brightness, d.Brightness},
		{params.Hue, d.Hue},
		{params.Saturation, d.Saturation},
		{params.WarpFactor, d.WarpFactor},
	}

	var changes []engine.Change
	for _, f := range fields {
		if f.value != nil {
			changes = append(changes, engine.Change{Name: f.name, Value: *f.value})
		}
	}
	return changes
}

func (s *Server) registerParameterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Get Status",
		Description: "Current warp core parameters",
		Tags:        []string{"parameters"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.StatusResponse, error) {
		return &models.StatusResponse{Body: toStatusData(s.controller.Status(), s.options.Thing)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-parameters",
		Method:      http.MethodPut,
		Path:        "/api/parameters",
		Summary:     "Update Parameters",
		Description: "Write one or more parameters. Omitted fields are unchanged and values are clamped to their range.",
		Tags:        []string{"parameters"},
		Security:    withAuth(),
		Errors:      []int{400, 401, 422},
	}, func(_ context.Context, input *models.ParametersRequest) (*models.StatusResponse, error) {
		changes := bodyChanges(input.Body)
		if len(changes) == 0 {
			return nil, huma.Error400BadRequest("No parameters given")
		}
		status := s.controller.Update(engine.SourceWeb, changes...)
		return &models.StatusResponse{Body: toStatusData(status, s.options.Thing)}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-patterns",
		Method:      http.MethodGet,
		Path:        "/api/patterns",
		Summary:     "List Patterns",
		Description: "Selectable patterns and the active one",
		Tags:        []string{"parameters"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.PatternListResponse, error) {
		return &models.PatternListResponse{
			Body: models.PatternListData{
				Patterns: patternInfos(),
				Active:   s.controller.Status().Pattern,
			},
		}, nil
	})
}

// registerSettingsRoute serves the control page's slider and button calls.
func (s *Server) registerSettingsRoute() {
	huma.Register(s.api, huma.Operation{
		OperationID: "settings",
		Method:      http.MethodGet,
		Path:        "/settings",
		Summary:     "Apply Settings",
		Description: "Apply parameters from query keys and reply with plain text",
		Tags:        []string{"parameters"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, input *SettingsInput) (*models.SettingsResponse, error) {
		s.controller.Update(engine.SourceWeb, input.Changes()...)
		return &models.SettingsResponse{
			ContentType: "text/plain",
			Body:        []byte("Thanks!"),
		}, nil
	})
}
