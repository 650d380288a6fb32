// Package pathutils resolves configured file locations such as the audit log and the credential record.
package pathutils
