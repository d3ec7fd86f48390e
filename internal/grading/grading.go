package grading

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/kisaansetu/mandi-api/internal/types"
)

// Grader assigns a quality grade and score to a new listing. The
// production deployment points at an external grading service; the
// mock grader stands in for it everywhere else.
type Grader interface {
	Grade(listing *types.Listing) (grade string, score int, err error)
}

var grades = []string{"A", "B", "C"}

// MockGrader assigns a random grade and a score in the 60-99 range
type MockGrader struct{}

func NewMockGrader() *MockGrader {
	return &MockGrader{}
}

func (g *MockGrader) Grade(_ *types.Listing) (string, int, error) {
	return grades[rand.Intn(len(grades))], 60 + rand.Intn(40), nil
}

// gradeAnswer is the JSON response from the grading service
type gradeAnswer struct {
	Grade string `json:"grade"`
	Score int    `json:"score"`
}

type gradeRequest struct {
	CropName string  `json:"crop_name"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// RemoteGrader calls an external grading service over HTTP
type RemoteGrader struct {
	serviceAddr string
	client      *resty.Client
}

func NewRemoteGrader(serviceAddr string) *RemoteGrader {
	return &RemoteGrader{
		serviceAddr: serviceAddr,
		client:      resty.New(),
	}
}

func (g *RemoteGrader) Grade(listing *types.Listing) (string, int, error) {
	var answer gradeAnswer
	resp, err := g.client.R().
		SetBody(gradeRequest{
			CropName: listing.CropName,
			Category: listing.Category,
			Quantity: listing.Quantity,
			Unit:     listing.Unit,
		}).
		SetResult(&answer).
		Post(g.serviceAddr + "/api/grade")
	if err != nil {
		return "", 0, err
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return answer.Grade, answer.Score, nil
	default:
		return "", 0, fmt.Errorf("grading request status: %d", resp.StatusCode())
	}
}
