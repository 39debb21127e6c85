package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchHTML_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := FetchHTML(context.Background(), srv.Client(), srv.URL+"/chart/top")
	var se *HTTPStatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusForbidden {
		t.Fatalf("期望 HTTP 403，实际：%T %v", err, err)
	}
}

func TestFetchHTML_WAFChallenge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-amzn-waf-action", "challenge")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	_, err := FetchHTML(context.Background(), srv.Client(), srv.URL)
	var be *BlockedError
	if !errors.As(err, &be) || be.Reason != "aws-waf" {
		t.Fatalf("期望 BlockedError(aws-waf)，实际：%T %v", err, err)
	}
}

func TestFetchHTML_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	if _, err := FetchHTML(context.Background(), srv.Client(), srv.URL); err == nil {
		t.Fatalf("空 body 应返回错误")
	}
}

func TestFetchChart_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chartFixture))
	}))
	defer srv.Close()

	rows, err := FetchChart(context.Background(), srv.Client(), srv.URL+"/chart/top", 2)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望 2 行，实际 %d", len(rows))
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := &MissingElementError{Selector: "strong", Where: "chart row 1"}
	err := error(&Error{Source: NameIMDb, Stage: "lookup", Rank: 1, Err: inner})
	if !IsMissingElement(err) {
		t.Fatalf("Error 应可 Unwrap 到 MissingElementError")
	}
	if got := err.Error(); got != `source=imdb stage=lookup rank=1: chart row 1：未找到元素 "strong"` {
		t.Fatalf("错误信息不符合预期：%q", got)
	}
}
