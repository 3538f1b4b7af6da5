package helpers

import (
	"fmt"

	"github.com/oksasatya/go-ddd-realworld/pkg/mailer"
)

// PrepareJob fills the template data every notification expects.
func PrepareJob(job *mailer.EmailJob, appName string) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["AppName"]; (!ok || fmt.Sprintf("%v", v) == "") && appName != "" {
		job.Data["AppName"] = appName
	}
}
