package ath

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

type fakeAthena struct {
	states   []types.QueryExecutionState
	polls    int
	pages    [][]types.Row
	started  []string
	startErr error
}

func (f *fakeAthena) StartQueryExecution(ctx context.Context, in *athena.StartQueryExecutionInput, _ ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started = append(f.started, aws.ToString(in.QueryString))
	return &athena.StartQueryExecutionOutput{QueryExecutionId: aws.String("q1")}, nil
}

func (f *fakeAthena) GetQueryExecution(ctx context.Context, in *athena.GetQueryExecutionInput, _ ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error) {
	st := f.states[len(f.states)-1]
	if f.polls < len(f.states) {
		st = f.states[f.polls]
	}
	f.polls++
	return &athena.GetQueryExecutionOutput{QueryExecution: &types.QueryExecution{
		QueryExecutionId: in.QueryExecutionId,
		Status:           &types.QueryExecutionStatus{State: st, StateChangeReason: aws.String("boom")},
	}}, nil
}

func (f *fakeAthena) GetQueryResults(ctx context.Context, in *athena.GetQueryResultsInput, _ ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error) {
	page := 0
	if in.NextToken != nil {
		page = 1
	}
	out := &athena.GetQueryResultsOutput{ResultSet: &types.ResultSet{Rows: f.pages[page]}}
	if page+1 < len(f.pages) {
		out.NextToken = aws.String("more")
	}
	return out, nil
}

func row(vals ...string) types.Row {
	r := types.Row{}
	for _, v := range vals {
		r.Data = append(r.Data, types.Datum{VarCharValue: aws.String(v)})
	}
	return r
}

func TestQueryRows_Paginates(t *testing.T) {
	f := &fakeAthena{
		states: []types.QueryExecutionState{types.QueryExecutionStateRunning, types.QueryExecutionStateSucceeded},
		pages: [][]types.Row{
			{row("game_date"), row("2024-01-02"), row("2024-01-04")},
			{row("2024-01-06")},
		},
	}
	r := &Runner{Client: f, Database: "hoops", Poll: time.Millisecond}
	rows, err := r.QueryRows(context.Background(), "SELECT game_date FROM game_logs")
	if err != nil {
		t.Fatalf("QueryRows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "2024-01-02" || rows[2][0] != "2024-01-06" {
		t.Errorf("unexpected rows %v", rows)
	}
	if f.polls < 2 {
		t.Errorf("expected to poll until success, polled %d", f.polls)
	}
}

func TestExecAndWait_Failed(t *testing.T) {
	f := &fakeAthena{states: []types.QueryExecutionState{types.QueryExecutionStateFailed}}
	r := &Runner{Client: f, Poll: time.Millisecond}
	if _, err := r.ExecAndWait(context.Background(), "SELECT 1"); err == nil {
		t.Fatal("expected failure")
	}
}

func TestExecAndWait_StartError(t *testing.T) {
	sentinel := errors.New("denied")
	r := &Runner{Client: &fakeAthena{startErr: sentinel}, Poll: time.Millisecond}
	if _, err := r.ExecAndWait(context.Background(), "SELECT 1"); !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped start error, got %v", err)
	}
}

func TestCountRows(t *testing.T) {
	f := &fakeAthena{
		states: []types.QueryExecutionState{types.QueryExecutionStateSucceeded},
		pages:  [][]types.Row{{row("c"), row("42")}},
	}
	r := &Runner{Client: f, Poll: time.Millisecond}
	n, err := r.CountRows(context.Background(), "SELECT COUNT(*) AS c FROM hoops.game_logs")
	if err != nil || n != 42 {
		t.Fatalf("CountRows = %d, %v", n, err)
	}
}
