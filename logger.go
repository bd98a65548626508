/*
Copyright (c) zkterm authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package zkterm

// LoggerInterface is an interface for debug logging.
type LoggerInterface interface {
	Printf(format string, v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Printf(_ string, _ ...interface{}) {}

// Logger is a package-level debug logger which discards all messages by
// default. Override it to trace wire-level activity (connect/auth
// outcomes, chunk boundaries, enrollment status codes), e.g.:
//
//	zkterm.Logger = log.New(os.Stderr, "", 0)
//
// or logrus:
//
//	zkterm.Logger = logrus.StandardLogger()
var Logger LoggerInterface = &noopLogger{}

// logf writes a trace line through Logger with a package prefix, so a
// message is identifiable when several packages share one sink.
func logf(format string, v ...interface{}) {
	Logger.Printf("zkterm: "+format, v...)
}
