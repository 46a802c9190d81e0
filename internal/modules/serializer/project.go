package serializer

import (
	"time"

	"github.com/archfolio/archfolio/internal/modules/model"
)

type Image struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	IsMain    bool      `json:"is_main"`
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	BuildingType string    `json:"building_type"`
	Area         float64   `json:"area"`
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	City         string    `json:"city"`
	Street       string    `json:"street"`
	Description  string    `json:"description"`
	Images       []Image   `json:"images"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func BuildImage(m model.Image) Image {
	return Image{
		ID:        m.ID,
		URL:       m.URL,
		IsMain:    m.IsMain,
		ProjectID: m.ProjectID.String(),
		CreatedAt: m.CreatedAt,
	}
}

func BuildImages(ms []model.Image) []Image {
	out := make([]Image, len(ms))
	for i, m := range ms {
		out[i] = BuildImage(m)
	}
	return out
}

func BuildProject(m model.Project) Project {
	return Project{
		ID:           m.ID.String(),
		Name:         m.Name,
		BuildingType: m.BuildingType,
		Area:         m.Area,
		Year:         m.Date.Year,
		Month:        m.Date.Month,
		City:         m.Address.City,
		Street:       m.Address.Street,
		Description:  m.Description,
		Images:       BuildImages(m.Images),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func BuildProjects(ms []model.Project) []Project {
	out := make([]Project, len(ms))
	for i, m := range ms {
		out[i] = BuildProject(m)
	}
	return out
}
