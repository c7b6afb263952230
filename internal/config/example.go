package config

// ExampleConfig is a complete annotated shop.yaml, written by
// `fabline config init`.
const ExampleConfig = `# Fabline shop configuration

# Where the sqlite database lives. Empty means ~/.fabline.
data_dir: ""

# Department order. Jobs flow through these stages front to back.
pipeline:
  - Engineering
  - Laser
  - Press Brake
  - Welding
  - Polishing
  - Assembly

# Per-department weekly capacity in points. Departments left out fall back
# to schedule.default_weekly_points. Share is the fraction of a job's points
# the department works; shares renormalize over the departments a job
# actually visits.
departments:
  Engineering:
    weekly_points: 850
    share: 0.25
    overtime_tiers:
      - label: "weekday +2h"
        bonus_points: 85
        days: "Mon-Fri"
      - label: "weekday +4h"
        bonus_points: 170
        days: "Mon-Fri"
      - label: "saturday shift"
        bonus_points: 255
        days: "Sat"
  Welding:
    weekly_points: 850
    share: 0.30

# Shop holidays, skipped by all date arithmetic.
holidays:
  - "2026-01-01"
  - "2026-07-03"
  - "2026-12-25"

schedule:
  # Idle work days between one department's window and the next.
  gap_days: 1
  default_weekly_points: 850

quote:
  # Conversion rate from quoted dollars to schedule points.
  dollars_per_point: 150
  # Line items worth at least this many points convert individually.
  big_rock_threshold: 40
`
