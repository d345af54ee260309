// Package srs implements the SM-2 spaced repetition scheduler.
//
// srs owns the review state of every (learner, item) pair: it creates state
// when an item enters a learner's active set, advances it on each quality
// rating, and answers which items are due. The algorithm runs over a Store
// interface, so the same scheduling behavior backs both the relational store
// and the local file store.
//
// Basic usage:
//
//	sched := srs.NewScheduler(store, srs.Config{}, logger)
//	if err := sched.Initialize(ctx, learnerID, itemIDs, time.Now()); err != nil {
//	    ...
//	}
//	state, err := sched.Rate(ctx, learnerID, itemID, srs.QualityGood, time.Now())
package srs
