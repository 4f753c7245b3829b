package logx

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	smerrors "github.com/Station-Manager/errors"
)

// PartitionName is the file name owning t's local calendar day, e.g. "24-03-09_Log.txt".
func PartitionName(t time.Time) string {
	return t.Local().Format(partitionLayout) + partitionSuffix
}

// PartitionPath joins dir and the partition name for t.
func PartitionPath(dir string, t time.Time) string {
	return filepath.Join(dir, PartitionName(t))
}

// appendLine renders "<time>/<LEVEL>/<tag> : <message>\n" into buf.
func appendLine(buf *bytes.Buffer, e Entry) {
	buf.WriteString(e.Time.Local().Format(lineTimeLayout))
	buf.WriteByte('/')
	buf.WriteString(e.Level.String())
	buf.WriteByte('/')
	buf.WriteString(e.Tag)
	buf.WriteString(" : ")
	buf.WriteString(e.Message)
	buf.WriteByte('\n')
}

// FormatLine renders the persisted form of e, including the trailing newline.
func FormatLine(e Entry) string {
	var buf bytes.Buffer
	appendLine(&buf, e)
	return buf.String()
}

// ensureDir creates dir, treating an existing directory as success.
func ensureDir(dir string) error {
	const op smerrors.Op = "logx.ensureDir"
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgCreateDir)
	}
	return nil
}

// appendPartition appends data to path in a single open-write-close cycle.
func appendPartition(path string, data []byte) error {
	const op smerrors.Op = "logx.appendPartition"
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerm)
	if err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgOpenPartition)
	}
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return smerrors.New(op).Err(err).Msg(errMsgWritePartition)
	}
	if err = f.Close(); err != nil {
		return smerrors.New(op).Err(err).Msg(errMsgClosePartition)
	}
	return nil
}
