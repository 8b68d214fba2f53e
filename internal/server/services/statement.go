package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/money"
	sc "github.com/dmitrijs2005/fintrack/internal/server/config"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

const statementContentType = "text/csv"

// StatementService exports an identity's ledger as a CSV file to
// S3-compatible storage and hands back a short-lived download link.
type StatementService struct {
	ledger *LedgerService
	config *sc.Config
	now    func() time.Time
}

func NewStatementService(ledger *LedgerService, config *sc.Config) *StatementService {
	return &StatementService{ledger: ledger, config: config, now: time.Now}
}

// StatementKey builds the object key for a new statement of userID.
func StatementKey(userID int64, d time.Time) string {
	return fmt.Sprintf("statements/%d/%04d/%02d/%02d/%v.csv", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *StatementService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Export renders the statement, uploads it and returns a presigned GET URL.
// It returns common.ErrFeatureDisabled when no bucket is configured.
func (s *StatementService) Export(ctx context.Context, userID int64) (*models.Statement, error) {
	if !s.config.StatementsEnabled() {
		return nil, fmt.Errorf("%w: statement export is not enabled", common.ErrFeatureDisabled)
	}

	items, income, err := s.ledger.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WriteStatementCSV(&buf, items, income); err != nil {
		return nil, fmt.Errorf("%w: rendering statement: %w", common.ErrorInternal, err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: configuring storage: %w", common.ErrorInternal, err)
	}

	now := s.now()
	bucket := s.config.S3Bucket
	key := StatementKey(userID, now)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(statementContentType),
	}); err != nil {
		return nil, fmt.Errorf("%w: uploading statement: %w", common.ErrorInternal, err)
	}

	ttl := s.config.StatementURLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("%w: presigning statement: %w", common.ErrorInternal, err)
	}

	return &models.Statement{Key: key, URL: req.URL, ExpiresAt: now.Add(ttl)}, nil
}

// WriteStatementCSV writes one row per entry followed by the income baseline
// and the derived totals.
func WriteStatementCSV(w io.Writer, items []models.Entry, income money.Amount) error {
	cw := csv.NewWriter(w)

	rows := [][]string{{"id", "created_at", "name", "kind", "amount"}}
	for _, e := range items {
		kind := "expense"
		if e.IsIncome {
			kind = "income"
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.Name,
			kind,
			e.Cost.String(),
		})
	}

	b := models.ComputeBalance(items, income)
	rows = append(rows,
		[]string{},
		[]string{"", "", "current income", "", income.String()},
		[]string{"", "", "total income", "", b.TotalIncome.String()},
		[]string{"", "", "total spent", "", b.TotalSpent.String()},
		[]string{"", "", "remaining", "", b.Remaining.String()},
	)

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
