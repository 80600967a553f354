package subject

// The well-known subjects and their payload schemas. The table is fixed at
// compile time; deployments with additional subjects construct their own
// Registry alongside the default one.
var wellKnown = map[string]string{
	"raw":         "keelson.primitives.TimestampedBytes",
	"raw_bytes":   "keelson.primitives.TimestampedBytes",
	"raw_string":  "keelson.primitives.TimestampedString",
	"nmea_string": "keelson.primitives.TimestampedString",

	"lever_position_pct":      "keelson.primitives.TimestampedFloat",
	"propeller_rate_rpm":      "keelson.primitives.TimestampedFloat",
	"propeller_pitch_rpm":     "keelson.primitives.TimestampedFloat",
	"rudder_angle_deg":        "keelson.primitives.TimestampedFloat",
	"heading_true_north_deg":  "keelson.primitives.TimestampedFloat",
	"speed_over_ground_knots": "keelson.primitives.TimestampedFloat",
	"course_over_ground_deg":  "keelson.primitives.TimestampedFloat",

	"log":              "foxglove.Log",
	"location_fix":     "foxglove.LocationFix",
	"compressed_image": "foxglove.CompressedImage",
	"point_cloud":      "foxglove.PointCloud",
	"raw_audio":        "foxglove.RawAudio",
}
