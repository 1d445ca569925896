// Package sms defines the contract for sending text messages and ships an
// HTTP implementation for the LabsMobile bulk-SMS JSON API.
//
// Callers depend on the SMS interface and Message payload, the same way mail
// callers depend on mail.Mail, so the provider can be swapped or faked.
package sms
