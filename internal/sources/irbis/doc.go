// Package irbis scrapes the HTML front ends of the Vernadsky library's IRBIS
// catalogue.
//
// ListSource pages through "preitem" result lists with POSTed search forms,
// keeping the Z21ID session token the server hands out on the first page.
// ElibSource walks the digital-library result pages by their "next" links and
// reads each full record page for title, author and date.
package irbis
