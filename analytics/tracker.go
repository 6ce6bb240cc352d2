package analytics

import (
	"context"
	"fmt"
	"forum-core/database"
	"forum-core/helpers"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
)

// Tracker writes engagement events into the analytics store (influxDB).
// Fire-and-forget: the counters on the documents are authoritative, this
// is time-series material for the stats pages only.
type Tracker struct {
	influxClient  influxdb2.Client
	EngagementAPI database.InfluxAPI
}

// SetConnections initializes the instance and derives the bucket handles
func (t *Tracker) SetConnections(influxClient *influxdb2.Client) {
	t.influxClient = *influxClient
	t.EngagementAPI = database.InfluxAPI{
		WriteAPI: t.influxClient.WriteAPIBlocking(
			os.Getenv("ANALYTICS_ORG"), os.Getenv("ANALYTICS_ENGAGEMENT_BUCKET")),
		QueryAPI: t.influxClient.QueryAPI(os.Getenv("ANALYTICS_ORG")),
	}
}

// SaveView stores a view event
func (t *Tracker) SaveView(targetType string, targetID string, userID string) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	// include the target type in the tag so aggregation queries can
	// "wrap" that information (eg. select targetId, count)
	p := influxdb2.NewPoint(
		"view",
		map[string]string{"targetId": targetType + "_" + targetID},
		map[string]interface{}{"userId": userID},
		time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	// ToDo: log Error
	_ = t.EngagementAPI.WriteAPI.WritePoint(ctx, p)
}

// SaveVote stores a vote event (direction is "up" or "down")
func (t *Tracker) SaveVote(targetType string, targetID string, direction string) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	p := influxdb2.NewPoint(
		"vote",
		map[string]string{"targetId": targetType + "_" + targetID},
		map[string]interface{}{"direction": direction},
		time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	// ToDo: log Error
	_ = t.EngagementAPI.WriteAPI.WritePoint(ctx, p)
}

// SaveLike stores a like/unlike event
func (t *Tracker) SaveLike(targetID string, userID string, added bool) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	p := influxdb2.NewPoint(
		"like",
		map[string]string{"targetId": "topic_" + targetID},
		map[string]interface{}{"userId": userID, "added": added},
		time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	// ToDo: log Error
	_ = t.EngagementAPI.WriteAPI.WritePoint(ctx, p)
}

// GetViews counts the view events of a target since startDT.
// "live" numbers - the bucket holds a limited period (TTL), the document's
// views counter carries the all-time total.
func (t *Tracker) GetViews(targetType string, targetID string, startDT time.Time) (int64, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return -1, nil
	}

	flux := `from(bucket: "%s")
		|> range(start: %s)
		|> filter(fn: (r) => r["_measurement"] == "view" and r["targetId"] == "%s")
		|> count()
		|> yield(name: "count")`

	id := targetType + "_" + targetID
	flux = fmt.Sprintf(
		flux,
		os.Getenv("ANALYTICS_ENGAGEMENT_BUCKET"),
		startDT.Format(time.RFC3339),
		id)

	result, err := t.EngagementAPI.QueryAPI.Query(context.Background(), flux)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	// nur 1 record
	var res interface{}
	for result.Next() {
		res = result.Record().Value()
	}

	var cnt int64 = 0
	if res != nil {
		cnt = res.(int64)
	}

	return cnt, nil
}
