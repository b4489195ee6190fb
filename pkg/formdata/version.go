package formdata

// Version is the module version reported by the command line tool.
const Version = "0.1.0"
