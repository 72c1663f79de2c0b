package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tyler180/hoops-gamelogs/internal/gamelog"
	"github.com/tyler180/hoops-gamelogs/internal/players"
	"github.com/tyler180/hoops-gamelogs/internal/reconcile"
)

type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Dynamo stores players (PK PlayerID N) and game logs (PK PlayerID N,
// SK GameDate S) in two DynamoDB tables.
type Dynamo struct {
	Client        DynamoDBAPI
	PlayersTable  string
	GameLogsTable string
	// Delay between passes that resend UnprocessedItems.
	Delay     time.Duration
	MaxPasses int
	Logger    *slog.Logger

	sleep func(time.Duration)
}

func NewDynamo(client DynamoDBAPI, playersTable, gameLogsTable string, delay time.Duration, logger *slog.Logger) *Dynamo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dynamo{
		Client:        client,
		PlayersTable:  playersTable,
		GameLogsTable: gameLogsTable,
		Delay:         delay,
		MaxPasses:     6,
		Logger:        logger,
		sleep:         time.Sleep,
	}
}

type playerItem struct {
	PlayerID  int64  `dynamodbav:"PlayerID"`
	FirstName string `dynamodbav:"FirstName"`
	LastName  string `dynamodbav:"LastName"`
	UpdatedAt int64  `dynamodbav:"UpdatedAt"`
}

type gameLogItem struct {
	PlayerID      int64   `dynamodbav:"PlayerID"`
	GameDate      string  `dynamodbav:"GameDate"`
	RowID         int64   `dynamodbav:"RowID"`
	Season        string  `dynamodbav:"Season"`
	Team          string  `dynamodbav:"Team"`
	HomeGame      string  `dynamodbav:"HomeGame"`
	Opponent      string  `dynamodbav:"Opponent"`
	Result        string  `dynamodbav:"Result"`
	Minutes       float64 `dynamodbav:"Minutes"`
	Points        int     `dynamodbav:"Points"`
	FGMade        int     `dynamodbav:"FGMade"`
	FGAttempts    int     `dynamodbav:"FGAttempts"`
	FGPct         float64 `dynamodbav:"FGPct"`
	ThreeMade     int     `dynamodbav:"ThreeMade"`
	ThreeAttempts int     `dynamodbav:"ThreeAttempts"`
	ThreePct      float64 `dynamodbav:"ThreePct"`
	FTMade        int     `dynamodbav:"FTMade"`
	FTAttempts    int     `dynamodbav:"FTAttempts"`
	FTPct         float64 `dynamodbav:"FTPct"`
	Rebounds      int     `dynamodbav:"Rebounds"`
	Assists       int     `dynamodbav:"Assists"`
	Steals        int     `dynamodbav:"Steals"`
	Blocks        int     `dynamodbav:"Blocks"`
	Turnovers     int     `dynamodbav:"Turnovers"`
	Fouls         int     `dynamodbav:"Fouls"`
}

func toGameLogItem(r reconcile.Row) gameLogItem {
	g := r.GameRecord
	return gameLogItem{
		PlayerID: g.PlayerID, GameDate: g.Date, RowID: r.ID,
		Season: g.Season, Team: g.Team, HomeGame: string(g.HomeGame), Opponent: g.Opponent, Result: g.Result,
		Minutes: g.Minutes, Points: g.Points,
		FGMade: g.FGMade, FGAttempts: g.FGAttempts, FGPct: g.FGPct,
		ThreeMade: g.ThreeMade, ThreeAttempts: g.ThreeAttempt, ThreePct: g.ThreePct,
		FTMade: g.FTMade, FTAttempts: g.FTAttempts, FTPct: g.FTPct,
		Rebounds: g.Rebounds, Assists: g.Assists, Steals: g.Steals, Blocks: g.Blocks,
		Turnovers: g.Turnovers, Fouls: g.Fouls,
	}
}

func (d *Dynamo) EnsurePlayer(ctx context.Context, p players.Player) error {
	item, err := attributevalue.MarshalMap(playerItem{
		PlayerID:  p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		UpdatedAt: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	_, err = d.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.PlayersTable),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PlayerID)"),
	})
	var exists *types.ConditionalCheckFailedException
	if errors.As(err, &exists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("put player %d: %w", p.ID, err)
	}
	return nil
}

func (d *Dynamo) ExistingKeys(ctx context.Context, playerID int64) (reconcile.KeySet, error) {
	keys := reconcile.NewKeySet()
	var lastKey map[string]types.AttributeValue
	for {
		out, err := d.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(d.GameLogsTable),
			KeyConditionExpression:    aws.String("#P = :p"),
			ProjectionExpression:      aws.String("#D"),
			ExpressionAttributeNames:  map[string]string{"#P": "PlayerID", "#D": "GameDate"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":p": &types.AttributeValueMemberN{Value: strconv.FormatInt(playerID, 10)}},
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query game logs for %d: %w", playerID, err)
		}
		var page []struct {
			GameDate string `dynamodbav:"GameDate"`
		}
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		for _, it := range page {
			keys.Add(gamelog.Key{PlayerID: playerID, Date: it.GameDate})
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		lastKey = out.LastEvaluatedKey
	}
	return keys, nil
}

// AppendGameLogs writes rows in 25-item batches. DynamoDB has no multi-batch
// atomicity, so the first failing batch aborts the call with one error.
func (d *Dynamo) AppendGameLogs(ctx context.Context, rows []reconcile.Row) error {
	if len(rows) == 0 {
		return nil
	}
	const maxBatch = 25

	for i := 0; i < len(rows); i += maxBatch {
		end := min(i+maxBatch, len(rows))

		reqs := make([]types.WriteRequest, 0, end-i)
		for _, r := range rows[i:end] {
			item, err := attributevalue.MarshalMap(toGameLogItem(r))
			if err != nil {
				return fmt.Errorf("marshal game log %s: %w", r.Date, err)
			}
			reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}
		if err := d.batchWrite(ctx, reqs); err != nil {
			return fmt.Errorf("batch write game logs: %w", err)
		}
	}
	d.Logger.Info("dynamo: appended", "table", d.GameLogsTable, "rows", len(rows))
	return nil
}

func (d *Dynamo) batchWrite(ctx context.Context, reqs []types.WriteRequest) error {
	input := &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{d.GameLogsTable: reqs},
	}
	passes := d.MaxPasses
	if passes <= 0 {
		passes = 1
	}
	sleep := d.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for pass := 0; pass < passes; pass++ {
		out, err := d.Client.BatchWriteItem(ctx, input)
		if err != nil {
			return err
		}
		if len(out.UnprocessedItems) == 0 {
			return nil
		}
		input.RequestItems = out.UnprocessedItems
		if pass < passes-1 {
			sleep(d.Delay)
		}
	}
	return fmt.Errorf("unprocessed items remained after %d passes for table %s", passes, d.GameLogsTable)
}
