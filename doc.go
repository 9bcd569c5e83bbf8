// Package miniqtt implements the client side of the MQTT v3.1.1
// publish/subscribe protocol for constrained environments: the caller
// supplies a byte-stream transport and a periodic time tick, and miniqtt
// encodes outgoing control packets, parses incoming ones, and drives a
// connection-lifecycle state machine that delivers connection,
// subscription, and message-delivery events back through callbacks.
//
// # Scope
//
// miniqtt implements CONNECT, CONNACK, PUBLISH, SUBSCRIBE, SUBACK, PINGREQ,
// PINGRESP, and DISCONNECT. It does not implement QoS 1/2 delivery
// guarantees end to end, UNSUBSCRIBE, retained-message replay, a
// persistent session store, multiple concurrent sessions on one Session
// value, or client-side topic-filter matching — the broker is assumed to
// route. TCP lifecycle, TLS, broker discovery, reconnection policy, and DNS
// are the caller's concern; miniqtt only ever sees bytes handed to it and
// hands bytes back through an OutputSink.
//
// # Two surfaces
//
// Session.Dispatch is the low-level action dispatcher: build an Action
// value (InitAction, ConnectAction, PublishAction, ...) and dispatch it.
// Facade wraps Session with an imperative connect/publish/subscribe/
// disconnect/keepalive/receive surface for callers who don't want to build
// Action values directly.
//
//	sess := miniqtt.NewSession()
//	sess.Dispatch(miniqtt.InitAction{Config: miniqtt.SessionConfig{
//	    Output: func(p []byte) (int, error) { return conn.Write(p) },
//	    OnConnected: func(status miniqtt.Status) { ... },
//	    OnMessage:   func(status miniqtt.Status, msg miniqtt.Message) { ... },
//	}})
//	sess.Dispatch(miniqtt.ConnectAction{Params: miniqtt.ConnectParams{
//	    ClientID: "sensor-1", CleanSession: true, KeepAliveSeconds: 30,
//	}})
//
// # Concurrency
//
// Session is strictly single-threaded and cooperative: it holds no
// internal lock. A caller running a separate reader thread must serialize
// its Dispatch(ParseInputStreamAction{...}) calls against every other
// action on the same Session — for example with a caller-owned mutex, or by
// funneling both sides through one goroutine, the way internal/streamio's
// FrameReader.Run does with an errgroup.Group.
package miniqtt
