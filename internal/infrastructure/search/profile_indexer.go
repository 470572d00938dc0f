package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/campus-connect/internal/domain/entity"
)

// ProfileIndexer writes the public part of a profile to Elasticsearch.
// Email and password hash are never indexed.
type ProfileIndexer struct {
	es    *elasticsearch.Client
	index string
}

func NewProfileIndexer(es *elasticsearch.Client, index string) *ProfileIndexer {
	return &ProfileIndexer{es: es, index: index}
}

type profileDoc struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Username    string   `json:"username"`
	CollegeID   string   `json:"collegeId"`
	CollegeName string   `json:"collegeName,omitempty"`
	Bio         string   `json:"bio"`
	Interests   []string `json:"interests"`
	Photos      []string `json:"photos"`
	IsOnboarded bool     `json:"isOnboarded"`
	UpdatedAt   string   `json:"updatedAt"`
}

func toDoc(a *entity.Account) profileDoc {
	d := profileDoc{
		ID:          a.ID,
		Name:        a.Name,
		Username:    a.Username,
		CollegeID:   a.CollegeID,
		Bio:         a.Bio,
		Interests:   a.Interests,
		Photos:      a.Photos,
		IsOnboarded: a.IsOnboarded,
		UpdatedAt:   a.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if a.College != nil {
		d.CollegeName = a.College.Name
	}
	return d
}

func (p *ProfileIndexer) IndexProfile(ctx context.Context, a *entity.Account) error {
	if p.es == nil || p.index == "" {
		return nil
	}
	b, err := json.Marshal(toDoc(a))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: p.index, DocumentID: a.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, p.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", a.ID, res.Status())
	}
	return nil
}
