package configdef

var HasDupStreamTitles = hasDupStreamTitles
