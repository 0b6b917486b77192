// Package store holds the launch table the dashboard is currently serving.
//
// The table itself is immutable; Store only guards the pointer to it so a
// dataset reload can swap in a fresh table while requests keep reading the
// old one. Subscribers are notified after every successful swap.
//
// Watch reloads the dataset file through fsnotify when dataset.watch is on.
// A failed reload is logged and the previous table stays active.
package store
