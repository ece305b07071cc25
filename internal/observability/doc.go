// Package observability records task events as JSON Lines so that changes
// to the task book can be audited after the fact. It also derives activity
// metrics from that log and raises reminders for scheduled tasks that are
// overdue or coming up.
package observability
