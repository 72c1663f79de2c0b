package ath

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
)

// AthenaAPI is the slice of the Athena client the runner needs.
type AthenaAPI interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
}

type Runner struct {
	Client    AthenaAPI
	Workgroup string
	Database  string
	OutputS3  string // s3://bucket/prefix/
	Poll      time.Duration
	Logger    *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// ExecAndWait starts sql and blocks until it reaches a terminal state.
func (r *Runner) ExecAndWait(ctx context.Context, sql string) (*types.QueryExecution, error) {
	in := &athena.StartQueryExecutionInput{
		QueryString: aws.String(sql),
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: aws.String(r.Database),
		},
	}
	if r.OutputS3 != "" {
		in.ResultConfiguration = &types.ResultConfiguration{OutputLocation: aws.String(r.OutputS3)}
	}
	if r.Workgroup != "" {
		in.WorkGroup = aws.String(r.Workgroup)
	}
	startOut, err := r.Client.StartQueryExecution(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("start query: %w", err)
	}
	qid := aws.ToString(startOut.QueryExecutionId)
	r.logger().Debug("athena: started", "qid", qid)

	poll := r.Poll
	if poll <= 0 {
		poll = time.Second
	}
	tick := time.NewTicker(poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-tick.C:
			ge, err := r.Client.GetQueryExecution(ctx, &athena.GetQueryExecutionInput{
				QueryExecutionId: aws.String(qid),
			})
			if err != nil {
				return nil, fmt.Errorf("get query execution: %w", err)
			}
			qe := ge.QueryExecution
			if qe == nil || qe.Status == nil {
				continue
			}
			switch qe.Status.State {
			case types.QueryExecutionStateSucceeded:
				if st := qe.Statistics; st != nil {
					r.logger().Info("athena: succeeded", "qid", qid,
						"scanned_mb", float64(aws.ToInt64(st.DataScannedInBytes))/1024.0/1024.0,
						"exec_sec", float64(aws.ToInt64(st.EngineExecutionTimeInMillis))/1000.0)
				}
				return qe, nil
			case types.QueryExecutionStateFailed:
				return nil, errors.New("athena failed: " + aws.ToString(qe.Status.StateChangeReason))
			case types.QueryExecutionStateCancelled:
				return nil, errors.New("athena cancelled")
			}
		}
	}
}

// QueryRows runs sql and returns every data row as strings, header excluded.
// NULL cells come back as "".
func (r *Runner) QueryRows(ctx context.Context, sql string) ([][]string, error) {
	exec, err := r.ExecAndWait(ctx, sql)
	if err != nil {
		return nil, err
	}

	var out [][]string
	var next *string
	first := true
	for {
		gr, err := r.Client.GetQueryResults(ctx, &athena.GetQueryResultsInput{
			QueryExecutionId: exec.QueryExecutionId,
			NextToken:        next,
		})
		if err != nil {
			return nil, fmt.Errorf("get results: %w", err)
		}
		rows := gr.ResultSet.Rows
		if first && len(rows) > 0 {
			rows = rows[1:] // column labels
		}
		first = false
		for _, row := range rows {
			vals := make([]string, len(row.Data))
			for i, d := range row.Data {
				vals[i] = aws.ToString(d.VarCharValue)
			}
			out = append(out, vals)
		}
		if gr.NextToken == nil || *gr.NextToken == "" {
			return out, nil
		}
		next = gr.NextToken
	}
}

// CountRows runs a query that returns a single COUNT(*) value.
func (r *Runner) CountRows(ctx context.Context, sql string) (int64, error) {
	rows, err := r.QueryRows(ctx, sql)
	if err != nil {
		return 0, err
	}
	if len(rows) < 1 || len(rows[0]) < 1 {
		return 0, errors.New("unexpected COUNT(*) result shape")
	}
	var n int64
	if _, err := fmt.Sscan(rows[0][0], &n); err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return n, nil
}
