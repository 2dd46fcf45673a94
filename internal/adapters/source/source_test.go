package source_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bishnt/portfolio/internal/adapters/source"
	"github.com/bishnt/portfolio/internal/domain/calendar"
	"github.com/bishnt/portfolio/internal/domain/synth"
	. "github.com/smartystreets/goconvey/convey"
)

// Fixed reference day used across the source tests (a Wednesday).
var testToday = time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

func testClock() time.Time { return testToday }

func TestGraphQLSource(t *testing.T) {
	Convey("Given the GraphQL source", t, func() {
		Convey("When the upstream returns a calendar", func() {
			var gotMethod, gotAuth string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotAuth = r.Header.Get("Authorization")
				fmt.Fprint(w, `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{
					"totalContributions": 999,
					"weeks":[{"contributionDays":[
						{"date":"2026-08-24","contributionCount":3},
						{"date":"2026-08-25","contributionCount":0},
						{"date":"2026-08-26","contributionCount":7}
					]}]}}}}}`)
			}))
			defer ts.Close()

			s := source.NewGraphQL("test-token",
				source.WithBaseURL(ts.URL), source.WithClock(testClock))
			res, err := s.Fetch(context.Background(), "bishnt")

			Convey("Then it normalizes into the trailing-year shape", func() {
				So(err, ShouldBeNil)
				So(res, ShouldNotBeNil)
				So(len(res.Weeks), ShouldBeGreaterThanOrEqualTo, 52)
			})

			Convey("And the request carries the bearer token", func() {
				So(gotMethod, ShouldEqual, http.MethodPost)
				So(gotAuth, ShouldEqual, "Bearer test-token")
			})

			Convey("And the total is recomputed locally, not trusted", func() {
				So(res.Total, ShouldEqual, 10)
			})

			Convey("And levels are recomputed from counts", func() {
				So(dayLevel(res.Weeks, "2026-08-24"), ShouldEqual, 2)
				So(dayLevel(res.Weeks, "2026-08-26"), ShouldEqual, 4)
			})
		})

		Convey("When the upstream returns a non-2xx status", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer ts.Close()

			s := source.NewGraphQL("t", source.WithBaseURL(ts.URL), source.WithClock(testClock))
			_, err := s.Fetch(context.Background(), "bishnt")

			Convey("Then it fails as unavailable", func() {
				So(err, ShouldWrap, source.ErrUnavailable)
			})
		})

		Convey("When the upstream reports a GraphQL error", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"errors":[{"message":"rate limited"}]}`)
			}))
			defer ts.Close()

			s := source.NewGraphQL("t", source.WithBaseURL(ts.URL), source.WithClock(testClock))
			_, err := s.Fetch(context.Background(), "bishnt")
			So(err, ShouldNotBeNil)
		})

		Convey("When the response lacks the nested calendar", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"data":{"user":null}}`)
			}))
			defer ts.Close()

			s := source.NewGraphQL("t", source.WithBaseURL(ts.URL), source.WithClock(testClock))
			_, err := s.Fetch(context.Background(), "bishnt")
			So(err, ShouldWrap, source.ErrMalformed)
		})
	})
}

func TestRESTSources(t *testing.T) {
	Convey("Given a REST aggregator source", t, func() {
		Convey("When the upstream supplies days with a total", func() {
			var gotPath string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				fmt.Fprint(w, `{"total":{"2026":12},"contributions":[
					{"date":"2026-08-25","count":2,"level":1},
					{"date":"2026-08-26","count":5,"level":3}
				]}`)
			}))
			defer ts.Close()

			s := source.NewContributionsAPI(source.WithBaseURL(ts.URL), source.WithClock(testClock))
			res, err := s.Fetch(context.Background(), "bishnt")

			Convey("Then the calendar is normalized and summed", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/bishnt")
				So(res.Total, ShouldEqual, 7)
				So(dayCount(res.Weeks, "2026-08-25"), ShouldEqual, 2)
				So(dayCount(res.Weeks, "2026-08-26"), ShouldEqual, 5)
			})
		})

		Convey("When the total field is omitted entirely", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"contributions":[
					{"date":"2026-08-24","count":4},
					{"date":"2026-08-25","count":1}
				]}`)
			}))
			defer ts.Close()

			s := source.NewAlternativeAPI(source.WithBaseURL(ts.URL), source.WithClock(testClock))
			res, err := s.Fetch(context.Background(), "bishnt")

			Convey("Then the total is computed by summing, not defaulted to zero", func() {
				So(err, ShouldBeNil)
				So(res.Total, ShouldEqual, 5)
			})
		})

		Convey("When contributions arrive as week arrays", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"contributions":[[
					{"date":"2026-08-23","count":1},
					{"date":"2026-08-24","count":2}
				]]}`)
			}))
			defer ts.Close()

			s := source.NewContributionsAPI(source.WithBaseURL(ts.URL), source.WithClock(testClock))
			res, err := s.Fetch(context.Background(), "bishnt")
			So(err, ShouldBeNil)
			So(res.Total, ShouldEqual, 3)
		})

		Convey("When the contributions list is empty", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"contributions":[]}`)
			}))
			defer ts.Close()

			s := source.NewContributionsAPI(source.WithBaseURL(ts.URL), source.WithClock(testClock))
			_, err := s.Fetch(context.Background(), "bishnt")
			So(err, ShouldWrap, source.ErrEmpty)
		})

		Convey("When the upstream is down", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer ts.Close()

			s := source.NewContributionsAPI(source.WithBaseURL(ts.URL), source.WithClock(testClock))
			_, err := s.Fetch(context.Background(), "bishnt")
			So(err, ShouldWrap, source.ErrUnavailable)
		})
	})
}

func TestEventsSource(t *testing.T) {
	Convey("Given the event-log source", t, func() {
		Convey("When the upstream returns events in and out of range", func() {
			var gotPath string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				fmt.Fprint(w, `[
					{"type":"PushEvent","created_at":"2026-08-26T08:15:00Z"},
					{"type":"PushEvent","created_at":"2026-08-26T09:45:00Z"},
					{"type":"IssuesEvent","created_at":"2026-08-20T10:00:00Z"},
					{"type":"PushEvent","created_at":"2020-01-01T00:00:00Z"}
				]`)
			}))
			defer ts.Close()

			s, err := source.NewEvents("",
				source.WithBaseURL(ts.URL), source.WithClock(testClock))
			So(err, ShouldBeNil)

			res, err := s.Fetch(context.Background(), "bishnt")

			Convey("Then in-range events are binned by UTC date", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldContainSubstring, "/users/bishnt/events")
				So(dayCount(res.Weeks, "2026-08-26"), ShouldEqual, 2)
				So(dayCount(res.Weeks, "2026-08-20"), ShouldEqual, 1)
			})

			Convey("And out-of-range events are ignored, not an error", func() {
				So(res.Total, ShouldEqual, 3)
			})
		})

		Convey("When the event log is empty", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `[]`)
			}))
			defer ts.Close()

			s, err := source.NewEvents("", source.WithBaseURL(ts.URL), source.WithClock(testClock))
			So(err, ShouldBeNil)

			_, err = s.Fetch(context.Background(), "bishnt")

			Convey("Then the source fails so the chain can fall through", func() {
				So(err, ShouldWrap, source.ErrEmpty)
			})
		})

		Convey("When the upstream returns HTTP 500", func() {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer ts.Close()

			s, err := source.NewEvents("", source.WithBaseURL(ts.URL), source.WithClock(testClock))
			So(err, ShouldBeNil)

			_, err = s.Fetch(context.Background(), "bishnt")
			So(err, ShouldWrap, source.ErrUnavailable)
		})
	})
}

func TestMockSource(t *testing.T) {
	Convey("Given the mock source", t, func() {
		s := source.NewMock(source.WithClock(testClock))

		Convey("Then it never fails and matches the generator", func() {
			res, err := s.Fetch(context.Background(), "anyone")
			So(err, ShouldBeNil)

			weeks, total := synth.Generate(testToday)
			So(res.Weeks, ShouldResemble, weeks)
			So(res.Total, ShouldEqual, total)
		})

		Convey("And its name is the mock provenance tag", func() {
			So(s.Name(), ShouldEqual, "mock-data")
		})
	})
}

func TestChain(t *testing.T) {
	Convey("Given a chain of sources", t, func() {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer failing.Close()

		Convey("When every upstream source returns HTTP 500", func() {
			events, err := source.NewEvents("",
				source.WithBaseURL(failing.URL), source.WithClock(testClock))
			So(err, ShouldBeNil)

			chain := source.NewChain([]source.Source{
				source.NewGraphQL("t", source.WithBaseURL(failing.URL), source.WithClock(testClock)),
				source.NewContributionsAPI(source.WithBaseURL(failing.URL), source.WithClock(testClock)),
				events,
				source.NewAlternativeAPI(source.WithBaseURL(failing.URL), source.WithClock(testClock)),
				source.NewMock(source.WithClock(testClock)),
			})

			res := chain.Resolve(context.Background(), "bishnt")

			Convey("Then the mock source satisfies the request", func() {
				So(res, ShouldNotBeNil)
				So(res.Source, ShouldEqual, "mock-data")
				So(len(res.Weeks), ShouldBeGreaterThanOrEqualTo, 52)
				So(res.Total, ShouldEqual, calendar.Total(res.Weeks))
			})
		})

		Convey("When an earlier source succeeds", func() {
			var laterCalls int32
			later := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				atomic.AddInt32(&laterCalls, 1)
				fmt.Fprint(w, `{"contributions":[{"date":"2026-08-26","count":1}]}`)
			}))
			defer later.Close()

			good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"contributions":[{"date":"2026-08-25","count":4}]}`)
			}))
			defer good.Close()

			chain := source.NewChain([]source.Source{
				source.NewContributionsAPI(source.WithBaseURL(good.URL), source.WithClock(testClock)),
				source.NewAlternativeAPI(source.WithBaseURL(later.URL), source.WithClock(testClock)),
				source.NewMock(source.WithClock(testClock)),
			})

			res := chain.Resolve(context.Background(), "bishnt")

			Convey("Then the first non-empty result wins with its provenance tag", func() {
				So(res.Source, ShouldEqual, "contributions-api")
				So(res.Total, ShouldEqual, 4)
			})

			Convey("And later sources are never consulted", func() {
				So(atomic.LoadInt32(&laterCalls), ShouldEqual, 0)
			})
		})

		Convey("When the chain has no terminal mock at all", func() {
			chain := source.NewChain([]source.Source{
				source.NewContributionsAPI(source.WithBaseURL(failing.URL), source.WithClock(testClock)),
			})

			res := chain.Resolve(context.Background(), "bishnt")

			Convey("Then it still returns a synthetic calendar", func() {
				So(res, ShouldNotBeNil)
				So(res.Source, ShouldEqual, "mock-data")
			})
		})

		Convey("When listing the chain", func() {
			chain := source.NewChain([]source.Source{
				source.NewContributionsAPI(),
				source.NewMock(),
			})
			So(chain.Names(), ShouldResemble, []string{"contributions-api", "mock-data"})
		})
	})
}

func dayCount(weeks []calendar.Week, date string) int {
	for _, w := range weeks {
		for _, d := range w.Days {
			if d.Date == date {
				return d.Count
			}
		}
	}
	return -1
}

func dayLevel(weeks []calendar.Week, date string) int {
	for _, w := range weeks {
		for _, d := range w.Days {
			if d.Date == date {
				return d.Level
			}
		}
	}
	return -1
}
