package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/geospanner/pkg/cache"
)

// Sink stores the records of a benchmark run.
type Sink interface {
	Write(ctx context.Context, run RunInfo, records []Record) error
	Close(ctx context.Context) error
}

// RunInfo identifies one benchmark run.
type RunInfo struct {
	ID        string
	Input     string
	StartedAt time.Time
}

// WriteResults writes records in the results format:
//
//	{"initialized" : true,
//	"Test0" : {...},
//	"Test1" : {...}}
//
// Records are written in input order.
func WriteResults(w io.Writer, records []Record) error {
	var buf bytes.Buffer
	buf.WriteString(`{"initialized" : true`)
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record %d: %w", r.Index, err)
		}
		fmt.Fprintf(&buf, ",\n\"Test%d\" : ", r.Index)
		buf.Write(data)
	}
	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// FileSink writes the results file.
type FileSink struct {
	Path string
}

// Write implements [Sink].
func (s FileSink) Write(_ context.Context, _ RunInfo, records []Record) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	if err := WriteResults(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Close implements [Sink].
func (FileSink) Close(context.Context) error { return nil }

// Mongo defaults.
const (
	DefaultMongoDatabase   = "geospanner"
	DefaultMongoCollection = "runs"
)

// MongoSink stores one document per record.
type MongoSink struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoSink connects to uri and stores records in database.collection.
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoSink{client: client, coll: client.Database(database).Collection(collection)}, nil
}

// Write implements [Sink]. Inserts are retried on transient failures.
func (s *MongoSink) Write(ctx context.Context, run RunInfo, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]any, 0, len(records))
	for _, r := range records {
		doc, err := recordDocument(run, r)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	return cache.RetryWithBackoff(ctx, func() error {
		_, err := s.coll.InsertMany(ctx, docs)
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			return cache.Retryable(err)
		}
		return err
	})
}

// Close implements [Sink].
func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// recordDocument converts a record to BSON. The report is stored as a
// nested document so its fields can be queried.
func recordDocument(run RunInfo, r Record) (bson.D, error) {
	doc := bson.D{
		{Key: "_id", Value: r.ID},
		{Key: "run_id", Value: run.ID},
		{Key: "input", Value: run.Input},
		{Key: "started_at", Value: run.StartedAt},
		{Key: "index", Value: r.Index},
		{Key: "command", Value: r.Command},
		{Key: "elapsed_ms", Value: r.Elapsed.Milliseconds()},
		{Key: "cached", Value: r.Cached},
	}
	if !r.OK() {
		doc = append(doc, bson.E{Key: "error", Value: r.Error})
		if r.Output != "" {
			doc = append(doc, bson.E{Key: "output", Value: r.Output})
		}
		return doc, nil
	}
	raw, err := json.Marshal(r.Report)
	if err != nil {
		return nil, err
	}
	var rep bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &rep); err != nil {
		return nil, fmt.Errorf("convert report %d: %w", r.Index, err)
	}
	return append(doc, bson.E{Key: "report", Value: rep}), nil
}

// MultiSink writes to every sink in order and stops at the first error.
type MultiSink []Sink

// Write implements [Sink].
func (m MultiSink) Write(ctx context.Context, run RunInfo, records []Record) error {
	for _, s := range m {
		if err := s.Write(ctx, run, records); err != nil {
			return err
		}
	}
	return nil
}

// Close implements [Sink].
func (m MultiSink) Close(ctx context.Context) error {
	var first error
	for _, s := range m {
		if err := s.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
