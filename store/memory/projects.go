package memory

import (
	"context"
	"slices"
	"time"

	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Projects struct {
	t *table[models.Project]
}

func NewProjects() *Projects {
	return &Projects{t: newTable(cloneProject)}
}

func cloneProject(p models.Project) models.Project {
	p.Team = slices.Clone(p.Team)
	if p.Team == nil {
		p.Team = []models.TeamMember{}
	}
	p.EndDate = cloneTime(p.EndDate)
	return p
}

func (s *Projects) Create(_ context.Context, project *models.Project) error {
	ensureID(&project.ID)
	return s.t.insert(project.ID, *project)
}

func (s *Projects) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Projects) List(_ context.Context) ([]models.Project, error) {
	return s.t.scan(nil), nil
}

func (s *Projects) Update(_ context.Context, project *models.Project) (*models.Project, error) {
	p, err := s.t.update(project.ID, func(p *models.Project) error {
		team := p.Team
		*p = cloneProject(*project)
		p.Team = team
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Projects) AddTeamMember(_ context.Context, projectID primitive.ObjectID, member models.TeamMember) (*models.Project, error) {
	p, err := s.t.update(projectID, func(p *models.Project) error {
		if p.HasMember(member.User) {
			return store.ErrDuplicate
		}
		p.Team = append(slices.Clone(p.Team), member)
		p.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Projects) RemoveTeamMember(_ context.Context, projectID, userID primitive.ObjectID) (*models.Project, error) {
	p, err := s.t.update(projectID, func(p *models.Project) error {
		p.Team = slices.DeleteFunc(slices.Clone(p.Team), func(m models.TeamMember) bool { return m.User == userID })
		p.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Projects) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}
