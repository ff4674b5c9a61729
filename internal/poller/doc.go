// Package poller fetches the Nextcloud serverinfo document and turns it into
// field results, once or on a schedule.
//
// Client is the HTTP side: a GET with basic auth and the OCS-APIRequest
// header, plus a single unauthenticated retry against the root URL when the
// body is not JSON. Coordinator serializes polls, drives the interval timer
// and reports each poll to a Listener as a started event followed by an
// outcome.
//
//	client := poller.NewClient(creds)
//	coord := poller.New(client, mapper, sel)
//	events := make(chan poller.Event, 8)
//	_ = coord.Start(30*time.Second, poller.ChannelListener(ctx, events))
//	defer coord.Stop()
//
// Failures never escape as panics or returned errors; they arrive as an
// Outcome whose Kind is errors.ErrTransport or errors.ErrDecode.
package poller
