// Package logx is a tag-oriented logging front-end that writes every record
// to a console sink and, optionally, persists it to one text file per day
// through an asynchronous, bounded, batching file sink.
//
// Pipeline
//   - Config snapshots are immutable and swapped atomically (ConfigStore)
//   - ShouldEmit admits a record when its tag or source name is allow-listed
//   - Formatters render plain, JSON (pretty printed), thread-tagged and
//     parent-chain records into Entry values
//   - The console sink (zerolog ConsoleWriter by default) is written
//     synchronously
//   - FileSink queues entries without ever blocking the caller, writes them
//     in batches to "<yy-MM-dd>_Log.txt" and drains the queue on Shutdown
//
// File lines look like
//
//	24-03-09, 14:02:11.123/INFO/Network : connected
//
// Typical usage
//
//	svc := logx.NewService("logx.json")
//	if err := svc.Initialize(); err != nil { panic(err) }
//	defer svc.Close()
//	defer svc.Recover()
//
//	log := svc.Writer()
//	log.Info("Network", "connected")
//	log.JSON("Payload", `{"id":1,"tags":["a","b"]}`)
//
// Changing the configuration, through the store or by editing a watched file,
// drains the current file sink before the replacement takes over.
package logx
